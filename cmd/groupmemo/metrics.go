//nolint:gochecknoglobals
package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kdudkov/groupmemo/internal/callbacks"
	"github.com/kdudkov/groupmemo/internal/model"
)

var (
	invitesIssuedMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "groupmemo",
		Name:      "invites_issued_total",
		Help:      "The total number of invites issued",
	})

	redemptionsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groupmemo",
		Name:      "invite_redemptions_total",
		Help:      "The total number of invite redemption attempts",
	}, []string{"result"})

	groupsCreatedMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "groupmemo",
		Name:      "groups_created_total",
		Help:      "The total number of groups created",
	})

	memosMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groupmemo",
		Name:      "memos_written_total",
		Help:      "The total number of memo writes",
	}, []string{"op"})
)

func subscribeMetrics(bus *callbacks.Bus[model.Event]) {
	bus.Subscribe("metrics", func(evt model.Event) bool {
		switch evt.Type {
		case model.EventInviteIssued:
			invitesIssuedMetric.Inc()
		case model.EventInviteRedeemed:
			redemptionsMetric.WithLabelValues("ok").Inc()
		case model.EventInviteRejected:
			redemptionsMetric.WithLabelValues(evt.Reason).Inc()
		case model.EventGroupCreated:
			groupsCreatedMetric.Inc()
		case model.EventMemoCreated:
			memosMetric.WithLabelValues("create").Inc()
		case model.EventMemoUpdated:
			memosMetric.WithLabelValues("update").Inc()
		case model.EventMemoDeleted:
			memosMetric.WithLabelValues("delete").Inc()
		}

		return true
	})
}

func subscribeAudit(bus *callbacks.Bus[model.Event], logger *slog.Logger) {
	bus.Subscribe("audit", func(evt model.Event) bool {
		attrs := []any{slog.Uint64("group", uint64(evt.GroupID))}

		if evt.UserID != 0 {
			attrs = append(attrs, slog.Uint64("user", uint64(evt.UserID)))
		}

		if evt.ActorID != 0 {
			attrs = append(attrs, slog.Uint64("actor", uint64(evt.ActorID)))
		}

		if evt.InviteID != 0 {
			attrs = append(attrs, slog.Uint64("invite", uint64(evt.InviteID)))
		}

		if evt.Reason != "" {
			attrs = append(attrs, slog.String("reason", evt.Reason))
		}

		logger.Debug(string(evt.Type), attrs...)

		return true
	})
}
