package ensproxy

import (
	"context"
	"time"
)

func (s *Proxy) runJobs() {
	s.scheduler.Every(5).Minute().SingletonMode().Do(s.refreshCommitmentAges)
	s.scheduler.Every(30).Seconds().SingletonMode().Do(s.exportTreasuryMetrics)

	s.scheduler.StartAsync()
	select {}
}

// reveal window bounds are deploy-time constants upstream; keep the cache
// warm so the API never blocks on them
func (s *Proxy) refreshCommitmentAges() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.fetchCommitmentAges(ctx); err != nil {
		log.Warn("refresh commitment ages", "err", err)
	}
}

func (s *Proxy) exportTreasuryMetrics() {
	metricTreasury(s.TreasuryBalance(), s.GetFee())
}
