/*
Package macro resolves tracking-URL templates by substituting macro tokens.

# Overview

Ad-tracking URLs carry placeholders such as [ERRORCODE], [CACHEBUSTING] or
%%TIMESTAMP%% that must be filled in right before the beacon is fired. macro
implements that vocabulary: it flattens template lists into URLs, prepares
the variable set (encoding, defaults, derived values) and replaces the tokens.

# Basic Usage

	urls := macro.Resolve(
	    macro.Strings("https://t.example/err?code=[ERRORCODE]&cb=[CACHEBUSTING]"),
	    macro.Variables{"ERRORCODE": "303"},
	    macro.ResolveOptions{},
	)
	// urls[0]: "https://t.example/err?code=303&cb=04718822"

# Token Syntax

Two interchangeable forms are recognized for every variable:

  - [NAME]
  - %%NAME%%

Substitution is literal. Only the first occurrence of each form is replaced
per variable and URL, and replaced values are never re-scanned for tokens.
Tokens without a matching variable are left as-is.

# Derived Variables

Every resolution adds:

  - CACHEBUSTING: 8-digit zero-padded random number
  - TIMESTAMP: current instant, ISO-8601 UTC, RFC 3986 encoded
  - RANDOM and random: same value as CACHEBUSTING

ASSETURI and CONTENTPLAYHEAD are RFC 3986 encoded. An ERRORCODE that is not
exactly three digits becomes 900 unless ResolveOptions.IsCustomCode is set.

# Determinism

Inject the clock and random source for reproducible output:

	r := macro.NewResolver(
	    macro.WithClock(func() time.Time { return fixed }),
	    macro.WithRandomSource(rand.New(rand.NewPCG(1, 2))),
	)

# Thread Safety

Resolver is immutable after construction and safe for concurrent use as long
as its RandomSource is. The caller's Variables are never modified.
*/
package macro
