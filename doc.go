// Package thirteenf normalizes quarterly 13F holdings disclosures and turns
// them into comparable time series across funds and quarters.
//
// The core functionalities include:
//   - Identifier Normalization: canonicalizing the noisy security references
//     found in filings (CUSIP variants, tickers, bare names) into stable
//     keys, with a process-wide alias table that only ever grows.
//   - Filing Parsing: converting one fund's one-quarter raw holdings rows
//     into an immutable Filing of merged, validated Positions, surfacing
//     bad rows as counts and warnings rather than failures.
//   - Filing Store: an in-memory, append-only index of filings keyed by
//     (fund, quarter) with per-fund chronological retrieval.
//   - Delta Engine: classifying every position across two filings of the
//     same fund as opened, closed, increased, decreased or unchanged, using
//     share-count movement (not value movement) as the signal of manager
//     action.
//   - Portfolio Aggregation: per-filing snapshots (top holdings,
//     concentration), per-fund timelines, and cross-fund movers rankings.
//
// This package serves as the foundational logic for the `fft` command-line
// tool; fetching filing pages and rendering dashboards are collaborators on
// either side of it, not part of the core.
package thirteenf
