package ensproxy

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	MetricNameSpace = "ensproxy"
)

var (
	treasuryBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "treasury_balance",
			Help:      "retained fee balance in ETH",
		},
	)
	serviceFeeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "service_fee",
			Help:      "current service fee in ETH",
		},
	)
	registrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "registrations_total",
			Help:      "completed registrations forwarded upstream",
		},
	)
	commitmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "commitments_total",
			Help:      "commitments submitted upstream",
		},
	)
)

func init() {
	prometheus.MustRegister(
		treasuryBalance,
		serviceFeeGauge,
		registrationsTotal,
		commitmentsTotal,
	)
}

func weiToEth(wei *big.Int) float64 {
	eth, _ := decimal.NewFromBigInt(wei, -18).Float64()
	return eth
}

func metricRegistration(balance, fee *big.Int) {
	registrationsTotal.Inc()
	treasuryBalance.Set(weiToEth(balance))
	serviceFeeGauge.Set(weiToEth(fee))
}

func metricCommitment() {
	commitmentsTotal.Inc()
}

func metricTreasury(balance, fee *big.Int) {
	treasuryBalance.Set(weiToEth(balance))
	serviceFeeGauge.Set(weiToEth(fee))
}
