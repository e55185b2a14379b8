package core

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/auto-dns/github-host-sync/internal/config"
	"github.com/auto-dns/github-host-sync/internal/hosts"
)

// Updater runs the fetch, compare and regenerate pipeline once per Run.
// Concurrent runs sharing a marker are not safe against each other.
type Updater struct {
	logger   zerolog.Logger
	cfg      *config.AppConfig
	fetcher  fetcher
	versions versionStore
	output   outputWriter
	recorder Recorder
	now      func() time.Time
}

func NewUpdater(logger zerolog.Logger, cfg *config.AppConfig, f fetcher, versions versionStore, output outputWriter, recorder Recorder) *Updater {
	return &Updater{
		logger:   logger,
		cfg:      cfg,
		fetcher:  f,
		versions: versions,
		output:   output,
		recorder: recorder,
		now:      time.Now,
	}
}

// Run performs a single update attempt. The returned error is nil exactly
// when the outcome is Updated or Skipped.
func (u *Updater) Run(ctx context.Context) (Result, error) {
	res := u.run(ctx)
	res.FinishedAt = u.now()
	if u.recorder != nil {
		u.recorder.Record(res)
	}
	return res, res.Err
}

func (u *Updater) run(ctx context.Context) Result {
	res := Result{OutputPath: u.output.Path()}

	// Step 1: fetch the remote document.
	start := u.now()
	doc, err := u.fetcher.Fetch(ctx)
	res.FetchDuration = u.now().Sub(start)
	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to fetch hosts file")
		return u.fail(res, OutcomeFetchFailed, err)
	}
	u.logger.Debug().Str("size", humanize.Bytes(uint64(len(doc)))).Msg("Remote document received")

	// Step 2: extract the remote marker.
	remote, err := hosts.ExtractUpdateTime(doc)
	if err != nil {
		u.logger.Warn().Err(err).Msg("Update time not found in remote document")
		return u.fail(res, OutcomeNoTimestamp, err)
	}
	res.RemoteMarker = remote

	// Step 3: compare with the stored marker.
	local, found, err := u.versions.Load(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to load stored marker")
		return u.fail(res, OutcomeWriteFailed, err)
	}
	res.PreviousMarker, res.HadPrevious = local, found

	if found && local == remote {
		if !u.cfg.Force {
			u.logger.Info().Str("marker", remote).Msg("Update time unchanged, skipping")
			res.Outcome = OutcomeSkipped
			return res
		}
		u.logger.Info().Str("marker", remote).Msg("Update time unchanged, regenerating because force is set")
	}

	// Step 4: regenerate the output, then record the marker.
	entries := hosts.ParseEntries(doc)
	res.Entries = len(entries)
	content := hosts.Render(entries, remote)

	if err := u.output.Write(ctx, []byte(content)); err != nil {
		u.logger.Error().Err(err).Msg("Failed to write output")
		return u.fail(res, OutcomeWriteFailed, err)
	}
	if err := u.versions.Save(ctx, remote); err != nil {
		// The output is already current; the next run sees a mismatch and rewrites it.
		u.logger.Error().Err(err).Msg("Output written but marker could not be saved")
		return u.fail(res, OutcomeWriteFailed, err)
	}

	u.logger.Info().
		Str("marker", remote).
		Str("previous", local).
		Int("hosts", len(entries)).
		Str("path", res.OutputPath).
		Msg("Output updated")
	res.Outcome = OutcomeUpdated
	return res
}

func (u *Updater) fail(res Result, outcome Outcome, err error) Result {
	res.Outcome = outcome
	res.Err = err
	return res
}
