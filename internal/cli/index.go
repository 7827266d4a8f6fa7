package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sherlocksearch/holmes/pkg/config"
	"github.com/sherlocksearch/holmes/pkg/indexer"
	"github.com/sherlocksearch/holmes/pkg/indexer/linkgraph"
)

// indexInput is the on-disk shape `holmes index` reads: one JSON
// object per line, either a document or a link, discriminated by the
// presence of "target_url".
type indexInput struct {
	URL        string `json:"url"`
	Body       string `json:"body"`
	Checksum   string `json:"checksum"`
	Weight     int32  `json:"weight"`
	Root       bool   `json:"root"`
	FromURL    string `json:"from_url"`
	TargetURL  string `json:"target_url"`
	AnchorText string `json:"anchor_text"`
	IsRedirect bool   `json:"is_redirect"`
	InterSite  bool   `json:"inter_site"`
}

func (c *CLI) indexCommand() *cobra.Command {
	var inputPath string
	var inspectCard int
	var dotPath string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "run the resolve/linkgraph/merge/weight/unreach/reftext/labels pipeline over a document+link stream",
		Long:  `index reads newline-delimited JSON documents and links and runs the full indexer pipeline (spec §4.2), reporting per-stage summaries and the final weight/unreachability/merge results.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			docs, links, err := readIndexInput(inputPath)
			if err != nil {
				return err
			}
			logger.Infof("loaded %d document(s), %d link(s)", len(docs), len(links))

			cfg := config.Default().Indexer
			p := indexer.Pipeline{Config: cfg}
			prog := newProgress(logger)
			res := p.Run(cmd.Context(), docs, links, nil)
			prog.done(fmt.Sprintf("resolved %d fingerprints", res.NumCards))

			printKeyValue("run id", res.RunID.String())
			printKeyValue("cards", fmt.Sprintf("%d", res.NumCards))
			printKeyValue("merge classes", fmt.Sprintf("%d", len(res.MergeClass)))
			printKeyValue("unreachable", fmt.Sprintf("%d", len(res.Unreachable)))
			printKeyValue("reftext labels", fmt.Sprintf("%d", len(res.ReftextLabels)))
			printKeyValue("url groups", fmt.Sprintf("%d", len(res.LabelGroups)))
			if res.Dropped > 0 {
				printWarning("%d pipeline inconsistenc(ies) dropped", res.Dropped)
			}

			if dotPath != "" {
				nodes := inspectNeighborhood(res, inspectCard)
				dot, png, err := linkgraph.ExportDOT(cmd.Context(), res.LinkGraph, nodes)
				if err != nil {
					return fmt.Errorf("exporting link graph: %w", err)
				}
				if err := os.WriteFile(dotPath, png, 0o644); err != nil {
					return err
				}
				logger.Infof("wrote %d bytes of PNG to %s\n%s", len(png), dotPath, dot)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to newline-delimited JSON documents/links (required)")
	cmd.MarkFlagRequired("input")
	cmd.Flags().IntVar(&inspectCard, "inspect", -1, "restrict --export-dot to this card and its backlinked neighborhood (-1 for the whole graph)")
	cmd.Flags().StringVar(&dotPath, "export-dot", "", "render the resolved link graph (or just --inspect's neighborhood) to a PNG at this path")
	return cmd
}

// inspectNeighborhood returns the node set ExportDOT should restrict
// to: the whole graph if card is negative, otherwise card plus every
// card that backlinks to it (the original's backlinker.c inspection
// mode).
func inspectNeighborhood(res indexer.Result, card int) []uint32 {
	if card < 0 || uint32(card) >= uint32(len(res.Backlinks)) {
		return nil
	}
	nodes := []uint32{uint32(card)}
	nodes = append(nodes, res.Backlinks[card]...)
	return nodes
}

func readIndexInput(path string) ([]indexer.Document, []indexer.Link, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var docs []indexer.Document
	var links []indexer.Link
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec indexInput
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, nil, fmt.Errorf("parsing input line: %w", err)
		}
		if rec.TargetURL != "" {
			links = append(links, indexer.Link{
				FromURL: rec.FromURL, TargetURL: rec.TargetURL, AnchorText: rec.AnchorText,
				IsRedirect: rec.IsRedirect, InterSite: rec.InterSite,
			})
			continue
		}
		docs = append(docs, indexer.Document{
			URL: rec.URL, Body: rec.Body, Checksum: rec.Checksum, Weight: rec.Weight, Roots: rec.Root,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return docs, links, nil
}
