package telegram

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Обработанные telegram update-ы по типу.",
	}, []string{"kind"})

	routeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_route_errors_total",
		Help: "Ошибки обработки update-ов.",
	})
)
