// Package config loads Holmes daemon/CLI settings from a TOML file using
// the same github.com/BurntSushi/toml decoder the teacher uses to parse
// poetry.lock and Cargo.lock manifests (pkg/deps/python/poetry.go,
// pkg/deps/rust/cargo.go) — here pointed at an actual settings file
// instead of a third-party lock format. Validate fills every zero-valued
// tunable with its documented default so a partial config file is always
// safe to run with.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sherlocksearch/holmes/pkg/filter"
	"github.com/sherlocksearch/holmes/pkg/herrors"
)

// Gatherer holds the per-host politeness and retry tunables consumed by
// pkg/scheduler (spec §4.1).
type Gatherer struct {
	MaxRetries     int    `toml:"max_retries"`
	RecErrLimit    int    `toml:"rec_err_limit"`
	RecErrDelay1   string `toml:"rec_err_dly1"`
	RecErrDelay2   string `toml:"rec_err_dly2"`
	MaxRunTime     string `toml:"max_run_time"`
	SoftQuota      int    `toml:"soft_quota"`
	HardQuota      int    `toml:"hard_quota"`
	MaxResolverKey int    `toml:"max_resolver_keys"`
}

// Indexer holds the stage tunables consumed by pkg/indexer/*.
type Indexer struct {
	MaxHashDensity  float64 `toml:"max_hash_density"`
	ResolvePrefetch int     `toml:"resolve_prefetch"`
	ResolveBatch    int     `toml:"resolve_batch_size"`
	MatcherPasses   int     `toml:"matcher_passes"`
	MatcherBlock    int     `toml:"matcher_block"`
	GiantDocuments  int     `toml:"giant_documents"`
	Threads         int     `toml:"threads"`

	PRandom     float64 `toml:"p_random"`
	PWeight     float64 `toml:"p_weight"`
	PFollow     float64 `toml:"p_follow"`
	LinkWeight0 float64 `toml:"link_weight_intra"`
	LinkWeight1 float64 `toml:"link_weight_inter"`
	Omega       float64 `toml:"sor_omega"`
	MinChange   float64 `toml:"min_change"`
	MaxPasses   int     `toml:"max_eigen_passes"`

	BigBufSize        int     `toml:"big_buf_size"`
	RefilterThreshold float64 `toml:"refilter_threshold"`
	MaxUnreachPasses  int     `toml:"max_unreach_passes"`

	ContextSlots int `toml:"context_slots"`
	TopKAnchors  int `toml:"top_k_anchors"`
}

// FilterEngine holds the switch-accelerator thresholds (spec §4.3).
type FilterEngine struct {
	HashLimit int `toml:"hash_limit"`
	KMPLimit  int `toml:"kmp_limit"`
	TrieLimit int `toml:"trie_limit"`
	TreeLimit int `toml:"tree_limit"`
}

// Storage holds connection settings for the bucket (Mongo), URL/MD5
// stores (Redis), and the status server (chi).
type Storage struct {
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	StatusAddr    string `toml:"status_addr"`
}

// Config is the top-level settings struct decoded from a TOML file.
// Core packages never read TOML directly — only cmd/holmes populates
// these structs and threads the typed fields down, per SPEC_FULL.md's
// ambient-stack section.
type Config struct {
	Gatherer Gatherer     `toml:"gatherer"`
	Indexer  Indexer      `toml:"indexer"`
	Filter   FilterEngine `toml:"filter"`
	Storage  Storage      `toml:"storage"`
}

// Default returns a Config with every field set to its documented
// default, matching spec §4.2.1 ("max_hash_density default 0.35") and
// the other inline defaults named across §4.2/§4.3.
func Default() Config {
	return Config{
		Gatherer: Gatherer{
			MaxRetries:     3,
			RecErrLimit:    5,
			RecErrDelay1:   "30s",
			RecErrDelay2:   "10m",
			MaxRunTime:     "2m",
			SoftQuota:      10000,
			HardQuota:      50000,
			MaxResolverKey: 256,
		},
		Indexer: Indexer{
			MaxHashDensity:    0.35,
			ResolvePrefetch:   8,
			ResolveBatch:      4096,
			MatcherPasses:     4,
			MatcherBlock:      32,
			GiantDocuments:    5000,
			Threads:           4,
			PRandom:           0.1,
			PWeight:           0.2,
			PFollow:           0.7,
			LinkWeight0:       1.0,
			LinkWeight1:       0.25,
			Omega:             1.2,
			MinChange:         1e-4,
			MaxPasses:         100,
			BigBufSize:        1 << 20,
			RefilterThreshold: 0.05,
			MaxUnreachPasses:  50,
			ContextSlots:      2,
			TopKAnchors:       8,
		},
		Filter: FilterEngine{HashLimit: 4, KMPLimit: 4, TrieLimit: 4, TreeLimit: 3},
		Storage: Storage{
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "holmes",
			RedisAddr:     "localhost:6379",
			StatusAddr:    ":8080",
		},
	}
}

// Load reads and decodes a TOML config file, then calls Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, herrors.Wrap(herrors.ErrCodeInternal, err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fills any zero-valued numeric tunable with its default and
// rejects combinations that would make a stage meaningless. It is
// idempotent: calling it twice never changes an already-valid Config.
func (c *Config) Validate() error {
	d := Default()

	if c.Gatherer.MaxRetries <= 0 {
		c.Gatherer.MaxRetries = d.Gatherer.MaxRetries
	}
	if c.Gatherer.RecErrLimit <= 0 {
		c.Gatherer.RecErrLimit = d.Gatherer.RecErrLimit
	}
	if c.Gatherer.RecErrDelay1 == "" {
		c.Gatherer.RecErrDelay1 = d.Gatherer.RecErrDelay1
	}
	if c.Gatherer.RecErrDelay2 == "" {
		c.Gatherer.RecErrDelay2 = d.Gatherer.RecErrDelay2
	}
	if c.Gatherer.MaxRunTime == "" {
		c.Gatherer.MaxRunTime = d.Gatherer.MaxRunTime
	}
	if c.Gatherer.SoftQuota <= 0 {
		c.Gatherer.SoftQuota = d.Gatherer.SoftQuota
	}
	if c.Gatherer.HardQuota <= 0 {
		c.Gatherer.HardQuota = d.Gatherer.HardQuota
	}
	if c.Gatherer.HardQuota < c.Gatherer.SoftQuota {
		return herrors.New(herrors.ErrCodeInternal, "gatherer.hard_quota (%d) must be >= soft_quota (%d)", c.Gatherer.HardQuota, c.Gatherer.SoftQuota)
	}
	if c.Gatherer.MaxResolverKey <= 0 {
		c.Gatherer.MaxResolverKey = d.Gatherer.MaxResolverKey
	}

	if c.Indexer.MaxHashDensity <= 0 || c.Indexer.MaxHashDensity > 1 {
		c.Indexer.MaxHashDensity = d.Indexer.MaxHashDensity
	}
	if c.Indexer.ResolvePrefetch <= 0 {
		c.Indexer.ResolvePrefetch = d.Indexer.ResolvePrefetch
	}
	if c.Indexer.ResolveBatch <= 0 {
		c.Indexer.ResolveBatch = d.Indexer.ResolveBatch
	}
	if c.Indexer.MatcherPasses <= 0 {
		c.Indexer.MatcherPasses = d.Indexer.MatcherPasses
	}
	if c.Indexer.MatcherBlock <= 0 {
		c.Indexer.MatcherBlock = d.Indexer.MatcherBlock
	}
	if c.Indexer.GiantDocuments <= 0 {
		c.Indexer.GiantDocuments = d.Indexer.GiantDocuments
	}
	if c.Indexer.Threads <= 0 {
		c.Indexer.Threads = d.Indexer.Threads
	}
	if c.Indexer.Omega <= 0 {
		c.Indexer.Omega = d.Indexer.Omega
	}
	if c.Indexer.MinChange <= 0 {
		c.Indexer.MinChange = d.Indexer.MinChange
	}
	if c.Indexer.MaxPasses <= 0 {
		c.Indexer.MaxPasses = d.Indexer.MaxPasses
	}
	if c.Indexer.BigBufSize <= 0 {
		c.Indexer.BigBufSize = d.Indexer.BigBufSize
	}
	if c.Indexer.MaxUnreachPasses <= 0 {
		c.Indexer.MaxUnreachPasses = d.Indexer.MaxUnreachPasses
	}
	if c.Indexer.ContextSlots <= 0 {
		c.Indexer.ContextSlots = d.Indexer.ContextSlots
	}
	if c.Indexer.TopKAnchors <= 0 {
		c.Indexer.TopKAnchors = d.Indexer.TopKAnchors
	}
	sum := c.Indexer.PRandom + c.Indexer.PWeight + c.Indexer.PFollow
	if sum <= 0 {
		c.Indexer.PRandom, c.Indexer.PWeight, c.Indexer.PFollow = d.Indexer.PRandom, d.Indexer.PWeight, d.Indexer.PFollow
	}
	if c.Indexer.LinkWeight0 <= 0 {
		c.Indexer.LinkWeight0 = d.Indexer.LinkWeight0
	}
	if c.Indexer.LinkWeight1 <= 0 {
		c.Indexer.LinkWeight1 = d.Indexer.LinkWeight1
	}

	if c.Filter.HashLimit <= 0 {
		c.Filter.HashLimit = d.Filter.HashLimit
	}
	if c.Filter.KMPLimit <= 0 {
		c.Filter.KMPLimit = d.Filter.KMPLimit
	}
	if c.Filter.TrieLimit <= 0 {
		c.Filter.TrieLimit = d.Filter.TrieLimit
	}
	if c.Filter.TreeLimit <= 0 {
		c.Filter.TreeLimit = d.Filter.TreeLimit
	}

	if c.Storage.MongoURI == "" {
		c.Storage.MongoURI = d.Storage.MongoURI
	}
	if c.Storage.MongoDatabase == "" {
		c.Storage.MongoDatabase = d.Storage.MongoDatabase
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = d.Storage.RedisAddr
	}
	if c.Storage.StatusAddr == "" {
		c.Storage.StatusAddr = d.Storage.StatusAddr
	}
	return nil
}

// FilterThresholds projects the filter-specific settings into the
// [filter.Thresholds] type [filter.Compile] expects.
func (c Config) FilterThresholds() filter.Thresholds {
	return filter.Thresholds{
		MinHashCases:   c.Filter.HashLimit,
		MinSubstrCases: c.Filter.TrieLimit,
		MinRangeCases:  c.Filter.TreeLimit,
	}
}
