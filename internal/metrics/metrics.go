package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invdash_store_mutations_total",
		Help: "Applied store mutations by operation.",
	}, []string{"op"})

	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invdash_import_rows_total",
		Help: "Parsed import rows by validation result.",
	}, []string{"result"})
)
