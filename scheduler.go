package main

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/karanm/aerocast/internal/database"
)

type Scheduler struct {
	cfg           *apiConfig
	statusChan    <-chan time.Time
	refreshChan   <-chan time.Time
	retentionChan <-chan time.Time
	stop          chan struct{}
	tickers       []*time.Ticker
	statusJobs    func()
	refreshJobs   func()
	retentionJobs func()
}

func NewScheduler(cfg *apiConfig, statusInterval, refreshInterval, retentionInterval time.Duration) *Scheduler {
	statusTicker := time.NewTicker(statusInterval)
	refreshTicker := time.NewTicker(refreshInterval)
	retentionTicker := time.NewTicker(retentionInterval)
	s := &Scheduler{
		cfg:           cfg,
		statusChan:    statusTicker.C,
		refreshChan:   refreshTicker.C,
		retentionChan: retentionTicker.C,
		stop:          make(chan struct{}),
		tickers:       []*time.Ticker{statusTicker, refreshTicker, retentionTicker},
	}
	s.statusJobs = s.runModelStatusJob
	s.refreshJobs = s.runForecastRefreshJobs
	s.retentionJobs = s.runRetentionJob
	return s
}

// Start runs every job once immediately, then keeps running them on their
// tickers until Stop is called.
func (s *Scheduler) Start() {
	go func() {
		log.Println("Scheduler: Running startup jobs...")
		s.statusJobs()
		s.refreshJobs()
		s.retentionJobs()
		for {
			select {
			case <-s.statusChan:
				log.Println("Scheduler: Running model status job...")
				s.statusJobs()
			case <-s.refreshChan:
				log.Println("Scheduler: Running forecast refresh jobs...")
				s.refreshJobs()
			case <-s.retentionChan:
				log.Println("Scheduler: Running retention job...")
				s.retentionJobs()
			case <-s.stop:
				log.Println("Scheduler: Stopping...")
				for _, ticker := range s.tickers {
					ticker.Stop()
				}
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	// TODO: Implement a more graceful shutdown.
	// The current implementation signals the scheduler to stop, but doesn't wait
	// for the currently running jobs to complete. A sync.WaitGroup could be
	// added to the Scheduler struct and used in runUpdateForSites to ensure
	// that the Stop() method blocks until all active jobs are finished.
	close(s.stop)
}

func (s *Scheduler) runUpdateForSites(jobName string, updateFunc func(context.Context, Site)) {
	ctx := context.Background()
	sites, err := s.cfg.dbQueries.ListMonitoredSites(ctx)
	if err != nil {
		log.Printf("Scheduler: %s: failed to get sites: %v", jobName, err)
		return
	}

	var wg sync.WaitGroup
	for _, dbSite := range sites {
		wg.Add(1)
		go func(ds database.MonitoredSite) {
			defer wg.Done()
			updateFunc(ctx, databaseMonitoredSiteToSite(ds))
		}(dbSite)
	}
	wg.Wait()
	log.Printf("Scheduler: All %s jobs for this cycle completed.", jobName)
}

func (s *Scheduler) runModelStatusJob() {
	s.cfg.statusMonitor.Check(context.Background())
}

func (s *Scheduler) runForecastRefreshJobs() {
	updateFunc := func(ctx context.Context, site Site) {
		if _, err := s.cfg.getForecast(ctx, site, defaultHorizonHours, false); err != nil {
			log.Printf("Scheduler: forecast refresh for %s fell back to synthesis: %v", site.Slug, err)
			return
		}
		log.Printf("Scheduler: Refreshed forecast for %s", site.Slug)
	}
	s.runUpdateForSites("forecast refresh", updateFunc)
}

func (s *Scheduler) runRetentionJob() {
	ctx := context.Background()
	retentionDays := s.cfg.settings.RetentionDays()
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	if err := s.cfg.dbQueries.DeleteForecastArchivesBefore(ctx, cutoff); err != nil {
		log.Printf("Scheduler: retention sweep failed: %v", err)
		return
	}
	log.Printf("Scheduler: Pruned archive rows older than %d days", retentionDays)
}
