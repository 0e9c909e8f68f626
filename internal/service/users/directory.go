// Package users ведёт справочник пользователей панели: роли и статусы,
// которыми оперирует раздел администрирования.
package users

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/metrics"
)

const entityUser = "user"

// MetricsRecorder совпадает с частью metrics.SalesMetrics, нужной справочнику.
type MetricsRecorder interface {
	RecordMutation(entity, operation, result string)
	RecordCollectionSize(entity string, size int)
}

type noopMetrics struct{}

func (noopMetrics) RecordMutation(string, string, string) {}
func (noopMetrics) RecordCollectionSize(string, int)      {}

// Option настраивает Directory.
type Option func(*Directory)

func WithLogger(logger *log.Entry) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(d *Directory) {
		if clock != nil {
			d.now = clock
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(d *Directory) {
		if gen != nil {
			d.newID = gen
		}
	}
}

func WithMetrics(recorder MetricsRecorder) Option {
	return func(d *Directory) {
		if recorder != nil {
			d.metrics = recorder
		}
	}
}

// Directory управляет пользователями. Отсутствующий ID при изменении или удалении
// даёт no-op, как и в хранилище продаж.
type Directory struct {
	mu      sync.Mutex
	repo    domain.UserRepository
	logger  *log.Entry
	now     func() time.Time
	newID   func() string
	metrics MetricsRecorder
}

func NewDirectory(repo domain.UserRepository, options ...Option) (*Directory, error) {
	if repo == nil {
		return nil, errors.New("users directory: repository is required")
	}
	d := &Directory{
		repo:    repo,
		logger:  log.WithField("component", "users"),
		now:     time.Now,
		newID:   uuid.NewString,
		metrics: noopMetrics{},
	}
	for _, opt := range options {
		opt(d)
	}
	return d, nil
}

// Add создаёт пользователя с новым ID и временем создания.
func (d *Directory) Add(in domain.UserInput) (domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	user := in.ToUser(d.newID(), d.now().UTC())
	if err := domain.NewValidationError(user.ValidateInvariants()); err != nil {
		d.rejected("add", err)
		return domain.User{}, err
	}
	if err := d.repo.Create(user); err != nil {
		d.rejected("add", err)
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	d.applied("add", user.ID)
	return user, nil
}

// Update применяет частичное изменение. Возвращает (User{}, false, nil), если пользователя нет.
func (d *Directory) Update(id string, patch domain.UserPatch) (domain.User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.repo.Get(id)
	if err != nil {
		applied, err := d.noopOrFail("update", id, err)
		return domain.User{}, applied, err
	}

	next := patch.Apply(current)
	if err := domain.NewValidationError(next.ValidateInvariants()); err != nil {
		d.rejected("update", err)
		return domain.User{}, false, err
	}
	if err := d.repo.Save(next); err != nil {
		applied, err := d.noopOrFail("update", id, err)
		return domain.User{}, applied, err
	}

	d.applied("update", id)
	return next, true, nil
}

// Delete удаляет пользователя. Отсутствующий ID даёт (false, nil).
func (d *Directory) Delete(id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.repo.Delete(id); err != nil {
		return d.noopOrFail("delete", id, err)
	}
	d.applied("delete", id)
	return true, nil
}

// Get возвращает пользователя или ошибку с domain.ErrUserNotFound.
func (d *Directory) Get(id string) (domain.User, error) {
	return d.repo.Get(id)
}

// List возвращает пользователей в порядке добавления.
func (d *Directory) List() ([]domain.User, error) {
	return d.repo.List()
}

func (d *Directory) noopOrFail(op, id string, err error) (bool, error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		d.metrics.RecordMutation(entityUser, op, metrics.ResultNoop)
		d.logger.WithFields(log.Fields{"operation": op, "id": id}).Debug("user not found, ignoring")
		return false, nil
	}
	d.rejected(op, err)
	return false, fmt.Errorf("%s user: %w", op, err)
}

func (d *Directory) applied(op, id string) {
	d.metrics.RecordMutation(entityUser, op, metrics.ResultApplied)
	if users, err := d.repo.List(); err == nil {
		d.metrics.RecordCollectionSize(entityUser, len(users))
	}
	d.logger.WithFields(log.Fields{"operation": op, "id": id}).Info("user directory changed")
}

func (d *Directory) rejected(op string, err error) {
	d.metrics.RecordMutation(entityUser, op, metrics.ResultRejected)
	d.logger.WithError(err).WithField("operation", op).Warn("user mutation rejected")
}
