// Package holmes is the root of the Holmes search-engine core: a
// gatherer scheduler, an indexer pipeline, and a filter engine, wired
// together as library packages rather than a monolithic binary.
//
// # Packages
//
//   - [herrors]: structured, code-tagged errors shared by every package.
//   - [httputil]: retry-with-backoff and restartable-stage checkpoint cache.
//   - [config]: TOML-backed configuration for the daemon/CLI entry points.
//   - [filter]: the compiled rule language (Component C) — declarations,
//     commands, conditions, switch accelerators, three-valued evaluation.
//   - [fingerprint]: the 128-bit canonical-URL digest type.
//   - [unionfind]: the card-id union-find used by the indexer's merge stages.
//   - [scheduler]: the gatherer's host/qnode queue and retry state machine
//     (Component A).
//   - [bucket]: the append-only card store (§6 "Bucket file").
//   - [urlstore]: the URL-DB / MD5-DB key-value stores (§6).
//   - [indexer/linkgraph], [indexer/resolve], [indexer/merge],
//     [indexer/weight], [indexer/unreach], [indexer/lexicon],
//     [indexer/reftext], [indexer/labels]: the indexer pipeline stages
//     (Component B, §4.2).
//   - [statusd]: a small read-only HTTP status surface for the gatherer
//     daemon.
//
// Imports flow in the dependency order described by spec §2: the filter
// engine has no dependency on the other two; the scheduler depends on the
// filter engine for admission; the indexer depends on the filter engine
// for per-stage classification and consumes the scheduler's buckets.
//
// [herrors]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/herrors
// [httputil]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/httputil
// [config]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/config
// [filter]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/filter
// [fingerprint]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/fingerprint
// [unionfind]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/unionfind
// [scheduler]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/scheduler
// [bucket]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/bucket
// [urlstore]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/urlstore
// [indexer/linkgraph]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/indexer/linkgraph
// [indexer/resolve]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/indexer/resolve
// [indexer/merge]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/indexer/merge
// [indexer/weight]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/indexer/weight
// [indexer/unreach]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/indexer/unreach
// [indexer/lexicon]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/indexer/lexicon
// [indexer/reftext]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/indexer/reftext
// [indexer/labels]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/indexer/labels
// [statusd]: https://pkg.go.dev/github.com/sherlocksearch/holmes/pkg/statusd
package holmes
