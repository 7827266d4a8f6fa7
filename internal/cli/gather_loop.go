package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sherlocksearch/holmes/pkg/herrors"
	"github.com/sherlocksearch/holmes/pkg/httputil"
	"github.com/sherlocksearch/holmes/pkg/scheduler"
)

// runGatherLoop drains sched by fetching one dequeued item at a time,
// classifying the outcome, and reporting it back via Finish — a
// minimal single-worker instance of the "politeness loop" spec §4.1
// describes as running across many worker goroutines.
func runGatherLoop(ctx context.Context, sched *scheduler.Scheduler, logger *log.Logger) error {
	client := &http.Client{Timeout: 30 * time.Second}
	fetched := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d, ok := sched.Dequeue(ctx)
		if !ok {
			break
		}

		target := fmt.Sprintf("%s://%s%s", d.Host.Protocol, d.Host.Hostname, d.URLRest)
		start := time.Now()
		code, fetchErr := fetchOnce(ctx, client, target)
		sched.Finish(ctx, d.Host, d.URLRest, d.Priority, code, time.Since(start), fetchErr)
		fetched++
		if fetchErr != nil {
			logger.Warnf("fetch %s: %v (code=%d)", target, fetchErr, code)
		} else {
			logger.Infof("fetch %s: %d", target, code)
		}
	}
	logger.Infof("gather finished: %d fetch(es), queue drained", fetched)
	return nil
}

func fetchOnce(ctx context.Context, client *http.Client, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, herrors.Wrap(herrors.ErrCodeFetchFatal, err, "building request for %s", target)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, httputil.Retryable(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return resp.StatusCode, nil
	case resp.StatusCode >= 500:
		return resp.StatusCode, httputil.Retryable(fmt.Errorf("server error: %s", resp.Status))
	case resp.StatusCode >= 400:
		return resp.StatusCode, herrors.Wrap(herrors.ErrCodeFetchFatal, fmt.Errorf("%s", resp.Status), "client error fetching %s", target)
	default:
		return resp.StatusCode, nil
	}
}
