// Package sales реализует единственный источник истины для товаров, клиентов и продаж.
package sales

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/metrics"
	"github.com/vladislavdragonenkov/salesdash/internal/service/stats"
)

const (
	entityProduct  = "product"
	entityCustomer = "customer"
	entitySale     = "sale"

	opAdd          = "add"
	opUpdate       = "update"
	opUpdateStatus = "update_status"
	opDelete       = "delete"
	opMarkOverdue  = "mark_overdue"
)

// Store владеет тремя коллекциями и их мутациями.
//
// Все мутации выполняются под одним mutex, поэтому ни одна операция не видна частично,
// включая фоновый перевод в overdue. Чтения идут напрямую в репозитории и видят
// согласованный снимок отдельной коллекции.
type Store struct {
	mu sync.Mutex

	products  domain.ProductRepository
	customers domain.CustomerRepository
	sales     domain.SaleRepository
	timeline  domain.TimelineRepository
	outbox    domain.OutboxRepository
	metrics   MetricsRecorder
	logger    *log.Entry
	now       func() time.Time
	newID     func() string

	dashboard atomic.Pointer[domain.DashboardStats]
}

// NewStore конструирует хранилище поверх репозиториев и сразу вычисляет сводку.
func NewStore(
	products domain.ProductRepository,
	customers domain.CustomerRepository,
	sales domain.SaleRepository,
	options ...Option,
) (*Store, error) {
	if products == nil || customers == nil || sales == nil {
		return nil, errors.New("sales store: repositories are required")
	}

	opts := StoreOptions{
		Clock:       defaultClock,
		IDGenerator: defaultIDGenerator,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "sales-store")
	}
	if opts.Clock == nil {
		opts.Clock = defaultClock
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = defaultIDGenerator
	}
	var recorder MetricsRecorder = noopMetrics{}
	if opts.Metrics != nil {
		recorder = opts.Metrics
	}

	s := &Store{
		products:  products,
		customers: customers,
		sales:     sales,
		timeline:  opts.Timeline,
		outbox:    opts.Outbox,
		metrics:   recorder,
		logger:    logger,
		now:       opts.Clock,
		newID:     opts.IDGenerator,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshSalesLocked(); err != nil {
		return nil, err
	}
	s.refreshProductsLocked()
	s.refreshCustomersLocked()

	return s, nil
}

// --- Products ---

// AddProduct назначает ID и добавляет товар.
func (s *Store) AddProduct(in domain.ProductInput) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := in.ToProduct(s.newID())
	if err := domain.NewValidationError(product.ValidateInvariants()); err != nil {
		s.rejected(entityProduct, opAdd, err)
		return domain.Product{}, err
	}
	if err := s.products.Create(product); err != nil {
		s.rejected(entityProduct, opAdd, err)
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.applied(entityProduct, opAdd, product.ID)
	s.refreshProductsLocked()
	return product, nil
}

// UpdateProduct заменяет товар целиком. Отсутствующий ID даёт no-op: (false, nil).
// Продажи, уже захватившие снимок товара, не меняются.
func (s *Store) UpdateProduct(product domain.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := domain.NewValidationError(product.ValidateInvariants()); err != nil {
		s.rejected(entityProduct, opUpdate, err)
		return false, err
	}
	if err := s.products.Save(product); err != nil {
		return s.noopOrFail(entityProduct, opUpdate, product.ID, err)
	}

	s.applied(entityProduct, opUpdate, product.ID)
	return true, nil
}

// DeleteProduct удаляет товар без каскада на продажи. Возвращает false, если товара не было.
func (s *Store) DeleteProduct(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.products.Delete(id); err != nil {
		return s.noopOrFail(entityProduct, opDelete, id, err)
	}

	s.applied(entityProduct, opDelete, id)
	s.refreshProductsLocked()
	return true, nil
}

// --- Customers ---

// AddCustomer назначает ID и добавляет клиента.
func (s *Store) AddCustomer(in domain.CustomerInput) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer := in.ToCustomer(s.newID())
	if err := domain.NewValidationError(customer.ValidateInvariants()); err != nil {
		s.rejected(entityCustomer, opAdd, err)
		return domain.Customer{}, err
	}
	if err := s.customers.Create(customer); err != nil {
		s.rejected(entityCustomer, opAdd, err)
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.applied(entityCustomer, opAdd, customer.ID)
	s.refreshCustomersLocked()
	return customer, nil
}

// UpdateCustomer заменяет клиента целиком. Отсутствующий ID даёт no-op.
func (s *Store) UpdateCustomer(customer domain.Customer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := domain.NewValidationError(customer.ValidateInvariants()); err != nil {
		s.rejected(entityCustomer, opUpdate, err)
		return false, err
	}
	if err := s.customers.Save(customer); err != nil {
		return s.noopOrFail(entityCustomer, opUpdate, customer.ID, err)
	}

	s.applied(entityCustomer, opUpdate, customer.ID)
	return true, nil
}

// DeleteCustomer удаляет клиента без каскада на продажи.
func (s *Store) DeleteCustomer(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.customers.Delete(id); err != nil {
		return s.noopOrFail(entityCustomer, opDelete, id, err)
	}

	s.applied(entityCustomer, opDelete, id)
	s.refreshCustomersLocked()
	return true, nil
}

// --- Sales ---

// AddSale оформляет продажу: захватывает снимки товара, клиента и продавца,
// вычисляет сумму и выставляет статус pending. Неразрешимые ссылки отклоняются до вставки.
func (s *Store) AddSale(in domain.SaleInput, actor domain.Identity) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := domain.NewValidationError(validateSaleInput(in)); err != nil {
		s.rejected(entitySale, opAdd, err)
		return domain.Sale{}, err
	}

	product, customer, err := s.resolveLocked(in.ProductID, in.CustomerID)
	if err != nil {
		s.rejected(entitySale, opAdd, err)
		return domain.Sale{}, err
	}

	now := s.now().UTC()
	saleDate := domain.DateOf(in.SaleDate)
	if saleDate.IsZero() {
		saleDate = domain.DateOf(now)
	}

	sale := domain.Sale{
		ID:              s.newID(),
		ProductID:       product.ID,
		ProductName:     product.Name,
		Quantity:        in.Quantity,
		UnitPrice:       product.Price,
		TotalAmount:     domain.LineTotal(in.Quantity, product.Price),
		SaleDate:        saleDate,
		DeliveryDate:    domain.DateOf(in.DeliveryDate),
		Status:          domain.SaleStatusPending,
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		SalesPersonID:   actor.ID,
		SalesPersonName: actor.Name,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := domain.NewValidationError(sale.ValidateInvariants()); err != nil {
		s.rejected(entitySale, opAdd, err)
		return domain.Sale{}, err
	}
	if err := s.sales.Create(sale); err != nil {
		s.rejected(entitySale, opAdd, err)
		return domain.Sale{}, fmt.Errorf("create sale: %w", err)
	}

	s.recordStatusLocked(sale.ID, "", sale.Status, domain.TimelineSourceCreate, now)
	s.enqueueLocked(domain.EventSaleCreated, sale, "")
	s.applied(entitySale, opAdd, sale.ID)
	s.refreshSalesLogged()
	return sale, nil
}

// UpdateSale применяет полную запись продажи. Поля снимков и сумма из входа игнорируются:
// при смене товара или количества цена и название берутся из живого товара, при смене
// клиента имя берётся из живого клиента. TotalAmount всегда пересчитывается.
// Пустой статус оставляет текущий.
// Отсутствующий ID даёт no-op. (Sale{}, false, nil).
func (s *Store) UpdateSale(updated domain.Sale) (domain.Sale, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.sales.Get(updated.ID)
	if err != nil {
		applied, err := s.noopOrFail(entitySale, opUpdate, updated.ID, err)
		return domain.Sale{}, applied, err
	}

	next := current
	next.Quantity = updated.Quantity
	next.SaleDate = domain.DateOf(updated.SaleDate)
	next.DeliveryDate = domain.DateOf(updated.DeliveryDate)
	if updated.Status != "" {
		next.Status = updated.Status
	}

	if updated.ProductID != current.ProductID || updated.Quantity != current.Quantity {
		product, err := s.resolveProductLocked(updated.ProductID)
		if err != nil {
			s.rejected(entitySale, opUpdate, err)
			return domain.Sale{}, false, err
		}
		next.ProductID = product.ID
		next.ProductName = product.Name
		next.UnitPrice = product.Price
	}
	if updated.CustomerID != current.CustomerID {
		customer, err := s.resolveCustomerLocked(updated.CustomerID)
		if err != nil {
			s.rejected(entitySale, opUpdate, err)
			return domain.Sale{}, false, err
		}
		next.CustomerID = customer.ID
		next.CustomerName = customer.Name
	}

	now := s.now().UTC()
	next.TotalAmount = domain.LineTotal(next.Quantity, next.UnitPrice)
	next.UpdatedAt = now

	if err := domain.NewValidationError(next.ValidateInvariants()); err != nil {
		s.rejected(entitySale, opUpdate, err)
		return domain.Sale{}, false, err
	}
	if err := s.sales.Save(next); err != nil {
		applied, err := s.noopOrFail(entitySale, opUpdate, next.ID, err)
		return domain.Sale{}, applied, err
	}

	if next.Status != current.Status {
		s.recordStatusLocked(next.ID, current.Status, next.Status, domain.TimelineSourceManual, now)
	}
	s.enqueueLocked(domain.EventSaleUpdated, next, current.Status)
	s.applied(entitySale, opUpdate, next.ID)
	s.refreshSalesLogged()
	return next, true, nil
}

// UpdateSaleStatus меняет только статус. Любой переход разрешён, включая overdue -> pending.
func (s *Store) UpdateSaleStatus(id string, status domain.SaleStatus) (domain.Sale, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		err := domain.NewValidationError([]error{domain.ErrSaleStatusInvalid})
		s.rejected(entitySale, opUpdateStatus, err)
		return domain.Sale{}, false, err
	}

	current, err := s.sales.Get(id)
	if err != nil {
		applied, err := s.noopOrFail(entitySale, opUpdateStatus, id, err)
		return domain.Sale{}, applied, err
	}

	now := s.now().UTC()
	next := current
	next.Status = status
	next.UpdatedAt = now
	if err := s.sales.Save(next); err != nil {
		applied, err := s.noopOrFail(entitySale, opUpdateStatus, id, err)
		return domain.Sale{}, applied, err
	}

	if current.Status != status {
		s.recordStatusLocked(id, current.Status, status, domain.TimelineSourceManual, now)
		s.enqueueLocked(domain.EventSaleStatusChanged, next, current.Status)
	}
	s.applied(entitySale, opUpdateStatus, id)
	s.refreshSalesLogged()
	return next, true, nil
}

// DeleteSale удаляет продажу. Возвращает false, если продажи не было.
func (s *Store) DeleteSale(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.sales.Get(id)
	if err != nil {
		return s.noopOrFail(entitySale, opDelete, id, err)
	}
	if err := s.sales.Delete(id); err != nil {
		return s.noopOrFail(entitySale, opDelete, id, err)
	}

	s.enqueueLocked(domain.EventSaleDeleted, current, current.Status)
	s.applied(entitySale, opDelete, id)
	s.refreshSalesLogged()
	return true, nil
}

// MarkOverdue переводит в overdue все pending продажи со сроком доставки строго раньше дня now.
// Другие статусы не затрагиваются, поэтому повторный вызов без смены даты ничего не меняет.
func (s *Store) MarkOverdue(now time.Time) ([]domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sales, err := s.sales.List()
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	var promoted []domain.Sale
	for _, sale := range sales {
		if !sale.IsOverdueAt(now) {
			continue
		}

		next := sale
		next.Status = domain.SaleStatusOverdue
		next.UpdatedAt = now.UTC()
		if err := s.sales.Save(next); err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			s.metrics.RecordMutation(entitySale, opMarkOverdue, metrics.ResultRejected)
			return promoted, fmt.Errorf("save overdue sale %s: %w", sale.ID, err)
		}

		s.recordStatusLocked(next.ID, sale.Status, next.Status, domain.TimelineSourceMonitor, now.UTC())
		s.enqueueLocked(domain.EventSaleOverdue, next, sale.Status)
		s.metrics.RecordMutation(entitySale, opMarkOverdue, metrics.ResultApplied)
		promoted = append(promoted, next)
	}

	if len(promoted) > 0 {
		s.metrics.RecordOverdueTransitions(len(promoted))
		s.refreshSalesLogged()
	}
	return promoted, nil
}

// --- helpers ---

func validateSaleInput(in domain.SaleInput) []error {
	var errs []error
	if in.ProductID == "" {
		errs = append(errs, domain.ErrProductRequired)
	}
	if in.CustomerID == "" {
		errs = append(errs, domain.ErrCustomerRequired)
	}
	if in.Quantity <= 0 {
		errs = append(errs, domain.ErrQuantityInvalid)
	}
	if in.DeliveryDate.IsZero() {
		errs = append(errs, domain.ErrDeliveryDateRequired)
	}
	return errs
}

func (s *Store) resolveLocked(productID, customerID string) (domain.Product, domain.Customer, error) {
	product, err := s.resolveProductLocked(productID)
	if err != nil {
		return domain.Product{}, domain.Customer{}, err
	}
	customer, err := s.resolveCustomerLocked(customerID)
	if err != nil {
		return domain.Product{}, domain.Customer{}, err
	}
	return product, customer, nil
}

func (s *Store) resolveProductLocked(id string) (domain.Product, error) {
	product, err := s.products.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.Product{}, fmt.Errorf("%w: product %q: %w", domain.ErrUnresolvedReference, id, err)
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *Store) resolveCustomerLocked(id string) (domain.Customer, error) {
	customer, err := s.customers.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Customer{}, fmt.Errorf("%w: customer %q: %w", domain.ErrUnresolvedReference, id, err)
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return customer, nil
}

// noopOrFail превращает not-found в no-op, остальные ошибки пробрасывает.
func (s *Store) noopOrFail(entity, op, id string, err error) (bool, error) {
	if domain.IsNotFound(err) {
		s.metrics.RecordMutation(entity, op, metrics.ResultNoop)
		s.logger.WithFields(log.Fields{
			"entity":    entity,
			"operation": op,
			"id":        id,
		}).Debug("mutation target not found, ignoring")
		return false, nil
	}
	s.rejected(entity, op, err)
	return false, fmt.Errorf("%s %s: %w", op, entity, err)
}

func (s *Store) applied(entity, op, id string) {
	s.metrics.RecordMutation(entity, op, metrics.ResultApplied)
	s.logger.WithFields(log.Fields{
		"entity":    entity,
		"operation": op,
		"id":        id,
	}).Debug("mutation applied")
}

func (s *Store) rejected(entity, op string, err error) {
	s.metrics.RecordMutation(entity, op, metrics.ResultRejected)
	s.logger.WithError(err).WithFields(log.Fields{
		"entity":    entity,
		"operation": op,
	}).Warn("mutation rejected")
}

func (s *Store) recordStatusLocked(saleID string, from, to domain.SaleStatus, source domain.TimelineSource, at time.Time) {
	if s.timeline == nil {
		return
	}
	event := domain.TimelineEvent{
		SaleID:   saleID,
		From:     from,
		To:       to,
		Source:   source,
		Occurred: at,
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithField("sale_id", saleID).Warn("failed to append timeline event")
	}
}

// refreshSalesLocked пересчитывает сводку с нуля по текущему снимку продаж.
func (s *Store) refreshSalesLocked() error {
	sales, err := s.sales.List()
	if err != nil {
		return fmt.Errorf("list sales: %w", err)
	}
	dashboard := stats.Dashboard(sales)
	s.dashboard.Store(&dashboard)
	s.metrics.RecordDashboard(dashboard)
	s.metrics.RecordCollectionSize(entitySale, len(sales))
	return nil
}

func (s *Store) refreshSalesLogged() {
	if err := s.refreshSalesLocked(); err != nil {
		s.logger.WithError(err).Error("failed to refresh dashboard stats")
	}
}

func (s *Store) refreshProductsLocked() {
	if products, err := s.products.List(); err == nil {
		s.metrics.RecordCollectionSize(entityProduct, len(products))
	}
}

func (s *Store) refreshCustomersLocked() {
	if customers, err := s.customers.List(); err == nil {
		s.metrics.RecordCollectionSize(entityCustomer, len(customers))
	}
}
