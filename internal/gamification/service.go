package gamification

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"brokee-go/internal/config"
	"brokee-go/internal/database"
	"brokee-go/internal/events"
	"brokee-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dayFormat = "2006-01-02"

// Blob-store keys for the independently persisted counters.
const (
	keyPoints       = "trading_points"
	keyTrades       = "trades_count"
	keyCourses      = "completed_courses"
	keyModuleXP     = "module_xp"
	keyModulePoints = "module_points"
	keyStreak       = "streak"
)

// StreakData tracks consecutive daily visits. CurrentStreak resets to exactly
// 1 on a fresh qualifying visit, never 0; LongestStreak is a high-water mark.
type StreakData struct {
	CurrentStreak int    `json:"currentStreak"`
	LastVisitDate string `json:"lastVisitDate"`
	LongestStreak int    `json:"longestStreak"`
}

// State is the full gamification snapshot exposed to the UI.
type State struct {
	Points           int            `json:"points"`
	ModulePoints     int            `json:"modulePoints"`
	ModuleXP         int            `json:"moduleXP"`
	TradesCount      int            `json:"tradesCount"`
	CompletedCourses int            `json:"completedCourses"`
	Streak           StreakData     `json:"streak"`
	Badges           []models.Badge `json:"badges"`
}

// Service derives points, badges and streak state from domain events. It is
// purely reactive: it owns no trading math, only accrual.
type Service struct {
	logger *zap.Logger
	cfg    *config.Config
	db     *gorm.DB
	store  *database.BlobStore
	bus    *events.Bus
}

// NewService creates a gamification service and seeds the badge catalog.
func NewService(logger *zap.Logger, cfg *config.Config, db *gorm.DB, store *database.BlobStore, bus *events.Bus) (*Service, error) {
	s := &Service{
		logger: logger.Named("gamification"),
		cfg:    cfg,
		db:     db,
		store:  store,
		bus:    bus,
	}
	if err := s.seedBadges(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) seedBadges() error {
	for _, def := range badgeDefs {
		badge := models.Badge{BadgeID: def.ID, Name: def.Name, Description: def.Description}
		err := s.db.FirstOrCreate(&badge, models.Badge{BadgeID: def.ID}).Error
		if err != nil {
			return fmt.Errorf("failed to seed badge %s: %w", def.ID, err)
		}
	}
	return nil
}

func (s *Service) counter(key string) (int, error) {
	value, ok, err := s.store.Get(key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, nil // unreadable counter resets to zero, like the UI did
	}
	return n, nil
}

func (s *Service) setCounter(key string, n int) error {
	return s.store.Set(key, strconv.Itoa(n))
}

func (s *Service) streak() (StreakData, error) {
	value, ok, err := s.store.Get(keyStreak)
	if err != nil || !ok {
		return StreakData{}, err
	}
	var data StreakData
	if err := json.Unmarshal([]byte(value), &data); err != nil {
		return StreakData{}, nil
	}
	return data, nil
}

func (s *Service) saveStreak(data StreakData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode streak: %w", err)
	}
	return s.store.Set(keyStreak, string(raw))
}

// RecordTrade accrues points and the trade counter for one executed trade.
// Profitable sells earn the configured bonus on top of the base award.
func (s *Service) RecordTrade(profitable bool) error {
	points, err := s.counter(keyPoints)
	if err != nil {
		return err
	}
	trades, err := s.counter(keyTrades)
	if err != nil {
		return err
	}

	earned := s.cfg.Trading.PointsPerTrade
	if profitable {
		earned += s.cfg.Trading.ProfitBonus
	}
	if err := s.setCounter(keyPoints, points+earned); err != nil {
		return err
	}
	if err := s.setCounter(keyTrades, trades+1); err != nil {
		return err
	}

	s.logger.Debug("Trade recorded",
		zap.Int("points_earned", earned),
		zap.Int("trades_total", trades+1))
	return s.EvaluateBadges()
}

// RecordVisit advances the daily streak for a visit at now. Visiting again on
// the same calendar day is a no-op; a visit the day after the last one
// extends the streak; anything else resets it to 1.
func (s *Service) RecordVisit(now time.Time) (StreakData, error) {
	today := now.Format(dayFormat)
	yesterday := now.AddDate(0, 0, -1).Format(dayFormat)

	data, err := s.streak()
	if err != nil {
		return StreakData{}, err
	}

	switch {
	case data.LastVisitDate == today:
		return data, nil
	case data.LastVisitDate == yesterday:
		data.CurrentStreak++
		if data.CurrentStreak > data.LongestStreak {
			data.LongestStreak = data.CurrentStreak
		}
	default:
		data.CurrentStreak = 1
		if data.LongestStreak < 1 {
			data.LongestStreak = 1
		}
	}
	data.LastVisitDate = today

	if err := s.saveStreak(data); err != nil {
		return StreakData{}, err
	}

	s.logger.Info("Streak updated",
		zap.Int("current", data.CurrentStreak),
		zap.Int("longest", data.LongestStreak))
	s.bus.Publish(events.StreakUpdated)
	if err := s.EvaluateBadges(); err != nil {
		return StreakData{}, err
	}
	return data, nil
}

// RecordCourseCompletion accrues module XP and points for one completed
// course module, grants the virtual-money replenish when due, and returns the
// new completed-course count.
func (s *Service) RecordCourseCompletion() (int, error) {
	count, err := s.counter(keyCourses)
	if err != nil {
		return 0, err
	}
	count++
	if err := s.setCounter(keyCourses, count); err != nil {
		return 0, err
	}

	xp, err := s.counter(keyModuleXP)
	if err != nil {
		return 0, err
	}
	if err := s.setCounter(keyModuleXP, xp+s.cfg.Gamification.ModuleXP); err != nil {
		return 0, err
	}
	modulePoints, err := s.counter(keyModulePoints)
	if err != nil {
		return 0, err
	}
	if err := s.setCounter(keyModulePoints, modulePoints+s.cfg.Gamification.ModulePoints); err != nil {
		return 0, err
	}

	if err := s.maybeReplenish(count); err != nil {
		return 0, err
	}

	s.bus.Publish(events.CourseCompleted)
	if err := s.EvaluateBadges(); err != nil {
		return 0, err
	}
	return count, nil
}

// maybeReplenish tops the virtual balance back up after every second or third
// completed course, capped per grant. This is the only external capital
// injection in the otherwise closed system.
func (s *Service) maybeReplenish(completedCourses int) error {
	if !s.cfg.Gamification.ReplenishEnabled {
		return nil
	}
	if completedCourses%2 != 0 && completedCourses%3 != 0 {
		return nil
	}

	target := s.cfg.Gamification.ReplenishTarget
	grantCap := s.cfg.Gamification.ReplenishCap

	// min(target, balance + cap) is the balance after a grant of
	// min(target - balance, cap). Checking and applying in one guarded SQL
	// statement keeps a concurrent order's balance update from being lost.
	result := s.db.Model(&models.Account{}).
		Where("balance < ?", target).
		Update("balance", gorm.Expr("round(min(?, balance + ?), 2)", target, grantCap))
	if result.Error != nil {
		return fmt.Errorf("failed to replenish balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil
	}

	var account models.Account
	if err := s.db.First(&account).Error; err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	s.logger.Info("Virtual balance replenished",
		zap.Float64("balance", account.Balance),
		zap.Float64("target", target))
	s.bus.Publish(events.BalanceChanged)
	return nil
}

// EvaluateBadges checks every unearned badge against the current counters and
// flips the ones whose threshold is met. Earned badges never revert.
func (s *Service) EvaluateBadges() error {
	trades, err := s.counter(keyTrades)
	if err != nil {
		return err
	}
	courses, err := s.counter(keyCourses)
	if err != nil {
		return err
	}
	streak, err := s.streak()
	if err != nil {
		return err
	}

	var badges []models.Badge
	if err := s.db.Find(&badges).Error; err != nil {
		return fmt.Errorf("failed to load badges: %w", err)
	}

	for i := range badges {
		badge := &badges[i]
		if badge.Earned {
			continue
		}
		def, ok := badgeDefByID(badge.BadgeID)
		if !ok {
			continue
		}

		var current int
		switch def.Metric {
		case metricCourses:
			current = courses
		case metricStreak:
			current = streak.CurrentStreak
		case metricTrades:
			current = trades
		}
		if current < def.Threshold {
			continue
		}

		now := time.Now()
		badge.Earned = true
		badge.EarnedAt = &now
		if err := s.db.Save(badge).Error; err != nil {
			return fmt.Errorf("failed to save badge %s: %w", badge.BadgeID, err)
		}
		s.logger.Info("Badge earned", zap.String("badge", badge.BadgeID))
		s.bus.Publish(events.BadgeEarned)
	}
	return nil
}

// CurrentState returns the full gamification snapshot.
func (s *Service) CurrentState() (*State, error) {
	points, err := s.counter(keyPoints)
	if err != nil {
		return nil, err
	}
	modulePoints, err := s.counter(keyModulePoints)
	if err != nil {
		return nil, err
	}
	xp, err := s.counter(keyModuleXP)
	if err != nil {
		return nil, err
	}
	trades, err := s.counter(keyTrades)
	if err != nil {
		return nil, err
	}
	courses, err := s.counter(keyCourses)
	if err != nil {
		return nil, err
	}
	streak, err := s.streak()
	if err != nil {
		return nil, err
	}

	var badges []models.Badge
	if err := s.db.Order("badge_id asc").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}

	return &State{
		Points:           points,
		ModulePoints:     modulePoints,
		ModuleXP:         xp,
		TradesCount:      trades,
		CompletedCourses: courses,
		Streak:           streak,
		Badges:           badges,
	}, nil
}
