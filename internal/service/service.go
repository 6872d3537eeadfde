package service

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/callbacks"
	"github.com/kdudkov/groupmemo/internal/database"
	"github.com/kdudkov/groupmemo/internal/model"
)

type Service struct {
	dbm    *database.DatabaseManager
	bus    *callbacks.Bus[model.Event]
	logger *slog.Logger
	now    func() time.Time
	text   *bluemonday.Policy
}

func New(dbm *database.DatabaseManager, bus *callbacks.Bus[model.Event]) *Service {
	return &Service{
		dbm:    dbm,
		bus:    bus,
		logger: slog.With("logger", "service"),
		now:    time.Now,
		text:   bluemonday.StrictPolicy(),
	}
}

// WithClock replaces the clock used for invite expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now

	return s
}

func (s *Service) Ledger() *Ledger {
	return newLedger(s.dbm)
}

func (s *Service) publish(evt model.Event) {
	s.bus.Publish(evt)
}

// plain strips any markup and surrounding whitespace from names.
func (s *Service) plain(str string) string {
	return strings.TrimSpace(html.UnescapeString(s.text.Sanitize(str)))
}

func getGroup(dbm *database.DatabaseManager, id uint) (*model.Group, error) {
	if id == 0 {
		return nil, apperr.NotFound("group not found")
	}

	g, err := dbm.GroupQuery().Id(id).Full().One()
	if err != nil {
		return nil, fmt.Errorf("group lookup: %w", err)
	}

	if g == nil {
		return nil, apperr.NotFound("group not found")
	}

	return g, nil
}
