// Copyright (c) 2026 Study Partner. All rights reserved.

// Package metrics defines and registers all custom Prometheus metrics for the
// Study Partner API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package load; the /metrics endpoint in internal/api serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studypartner"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - method: "password" or "google"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// RegistrationsTotal counts account registrations.
// Label:
//   - method: "password" or "google"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by provisioning method.",
	},
	[]string{"method"},
)

// ── Document metrics ──────────────────────────────────────────────────────────

// DocumentsUploadedTotal counts successful PDF uploads.
var DocumentsUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_uploaded_total",
		Help:      "Total number of PDF documents uploaded.",
	},
)

// DocumentUploadBytes observes the size of uploaded documents.
var DocumentUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_upload_bytes",
		Help:      "Size distribution of uploaded PDF documents in bytes.",
		Buckets:   prometheus.ExponentialBuckets(64*1024, 4, 8), // 64KiB .. 1GiB
	},
)

// ── LLM metrics ───────────────────────────────────────────────────────────────

// LLMRequestsTotal counts upstream completion API calls.
// Labels:
//   - operation: "summarize", "chat", or "quiz"
//   - result: "success" or "failure"
var LLMRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_requests_total",
		Help:      "Total number of LLM completion requests, by operation and result.",
	},
	[]string{"operation", "result"},
)

// LLMRequestDuration measures upstream completion latency end-to-end.
// Label:
//   - operation: "summarize", "chat", or "quiz"
var LLMRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "Duration of LLM completion requests from send to parsed response.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	},
	[]string{"operation"},
)

// ── Study session metrics ─────────────────────────────────────────────────────

// StudySessionsStartedTotal counts started tracking sessions.
var StudySessionsStartedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "study_sessions_started_total",
		Help:      "Total number of study sessions started.",
	},
)

// StudySessionDuration observes the length of completed study sessions.
var StudySessionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "study_session_duration_seconds",
		Help:      "Duration distribution of completed study sessions.",
		Buckets:   []float64{60, 300, 900, 1800, 3600, 7200, 14400},
	},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts finished HTTP requests.
// Labels:
//   - method: HTTP verb
//   - route: chi route pattern (e.g. "/api/files/{id}")
//   - status: numeric response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route, and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration observes request handling latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP requests, by method and route.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"method", "route"},
)
