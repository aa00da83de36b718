package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики бота
// ============================================================
//
// Регистрируются в default registry и отдаются через /metrics.
// Метки имеют фиксированный набор значений, chat_id в метки не попадает.

// ============ Webhook ============

// Виды обработанных обновлений
const (
	UpdateKindStart   = "start"
	UpdateKindHelp    = "help"
	UpdateKindInput   = "input"
	UpdateKindHint    = "hint"
	UpdateKindIgnored = "ignored"
)

// Причины отклонения запроса
const (
	RejectReasonSignature = "signature"
	RejectReasonDecode    = "decode"
)

// WebhookUpdates - количество обработанных обновлений по видам
var WebhookUpdates = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "leveragebot",
		Subsystem: "webhook",
		Name:      "updates_total",
		Help:      "Total number of processed webhook updates",
	},
	[]string{"kind"},
)

// WebhookRejected - запросы, отклонённые до обработки
var WebhookRejected = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "leveragebot",
		Subsystem: "webhook",
		Name:      "rejected_total",
		Help:      "Total number of rejected webhook requests",
	},
	[]string{"reason"},
)

// WebhookLatency - время обработки webhook запроса
var WebhookLatency = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "leveragebot",
		Subsystem: "webhook",
		Name:      "latency_seconds",
		Help:      "Webhook request handling time in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
)

// ============ Сессии ============

// SessionsActive - текущее число сессий в хранилище
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "leveragebot",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Number of conversation sessions currently stored",
	},
)

// SessionsSwept - сессии, удалённые по TTL
var SessionsSwept = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "leveragebot",
		Subsystem: "sessions",
		Name:      "swept_total",
		Help:      "Total number of sessions removed by the expiry sweep",
	},
)

// ============ Расчёты и отправка ============

// Calculations - расчёты плеча по результату (ok/error)
var Calculations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "leveragebot",
		Name:      "calculations_total",
		Help:      "Total number of leverage calculations",
	},
	[]string{"result"},
)

// SendFailures - неудачные вызовы sendMessage
var SendFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "leveragebot",
		Name:      "send_failures_total",
		Help:      "Total number of failed Telegram sendMessage calls",
	},
)

// ============ Хелперы ============

// RecordUpdate увеличивает счётчик обновлений
func RecordUpdate(kind string) {
	WebhookUpdates.WithLabelValues(kind).Inc()
}

// RecordRejected увеличивает счётчик отклонённых запросов
func RecordRejected(reason string) {
	WebhookRejected.WithLabelValues(reason).Inc()
}

// RecordCalculation записывает результат расчёта
func RecordCalculation(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	Calculations.WithLabelValues(result).Inc()
}

// RecordSendFailure записывает неудачную отправку
func RecordSendFailure() {
	SendFailures.Inc()
}

// RecordSweep записывает число удалённых сессий и текущий размер хранилища
func RecordSweep(removed, remaining int) {
	if removed > 0 {
		SessionsSwept.Add(float64(removed))
	}
	SessionsActive.Set(float64(remaining))
}

// UpdateActiveSessions выставляет gauge активных сессий
func UpdateActiveSessions(count int) {
	SessionsActive.Set(float64(count))
}

// ObserveWebhookLatency записывает время обработки в секундах
func ObserveWebhookLatency(seconds float64) {
	WebhookLatency.Observe(seconds)
}
