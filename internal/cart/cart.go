package cart

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FruitStore/internal/catalog"
)

var ErrTotalOverflow = errors.New("total overflow")

const maxNotices = 20

func addedNotice(name string) string {
	return "Đã thêm " + name + " vào giỏ hàng!"
}

type Line struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Image     string    `json:"image"`
	Qty       int       `json:"qty"`
	AddedAt   time.Time `json:"added_at"`
}

type Notice struct {
	Level   catalog.NoticeLevel `json:"level"`
	Message string              `json:"message"`
	At      time.Time           `json:"at"`
}

// Manager is the in-memory cart of the single local shopper. It also records
// the notices raised while shopping so a client can display them.
type Manager struct {
	Log *zap.Logger

	mu      sync.RWMutex
	lines   []Line
	notices []Notice
	now     func() time.Time
}

func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{Log: log, now: time.Now}
}

func (m *Manager) AddToCart(ctx context.Context, productID int64, name, price, image string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Qty++
			m.notifyLocked(catalog.NoticeSuccess, addedNotice(name))
			return nil
		}
	}

	m.lines = append(m.lines, Line{
		ID:        "l_" + uuid.NewString(),
		ProductID: productID,
		Name:      name,
		Price:     price,
		Image:     image,
		Qty:       1,
		AddedAt:   m.now().UTC(),
	})
	m.notifyLocked(catalog.NoticeSuccess, addedNotice(name))
	return nil
}

func (m *Manager) Notify(ctx context.Context, level catalog.NoticeLevel, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyLocked(level, msg)
}

func (m *Manager) notifyLocked(level catalog.NoticeLevel, msg string) {
	m.Log.Info("notice", zap.String("level", string(level)), zap.String("message", msg))

	m.notices = append(m.notices, Notice{Level: level, Message: msg, At: m.now().UTC()})
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func (m *Manager) Lines() []Line {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Line(nil), m.lines...)
}

func (m *Manager) Notices() []Notice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Notice(nil), m.notices...)
}

func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
}

// Total sums the numeric line prices in đồng.
func (m *Manager) Total() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, l := range m.lines {
		unit := catalog.ParsePrice(l.Price)
		if l.Qty > 0 && unit > math.MaxInt64/int64(l.Qty) {
			return 0, ErrTotalOverflow
		}
		line := unit * int64(l.Qty)
		if total > math.MaxInt64-line {
			return 0, ErrTotalOverflow
		}
		total += line
	}
	return total, nil
}
