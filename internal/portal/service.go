// Package portal implements the production-floor workflow: a shop-floor
// employee authenticates with credentials or scanned codes and records
// production progress against a single order.
package portal

import (
	"errors"
	"fmt"

	"github.com/fabbrica-mes/backoffice/internal/auth"
	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/fabbrica-mes/backoffice/internal/repo"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthResult is a user-facing authentication outcome. A failed login is not
// a Go error; the message goes straight to the portal UI.
type AuthResult struct {
	OK        bool       `json:"ok"`
	Error     string     `json:"error,omitempty"`
	Token     string     `json:"token,omitempty"`
	Employee  string     `json:"employee,omitempty"`
	OrderUUID *uuid.UUID `json:"order_uuid,omitempty"`
}

// ActionResult is the structured outcome of a mutating portal action.
// Business-rule rejections set Error; infrastructure failures surface as Go
// errors from the service methods instead.
type ActionResult struct {
	OK               bool          `json:"ok"`
	Error            string        `json:"error,omitempty"`
	Order            *models.Order `json:"order,omitempty"`
	AppliedQuantity  int           `json:"applied_quantity,omitempty"`
	LabelURL         string        `json:"label_url,omitempty"`
	AlreadyConfirmed bool          `json:"already_confirmed,omitempty"`
}

type Service struct {
	employees    repo.EmployeeRepository
	orders       repo.OrderRepository
	articles     repo.ArticleRepository
	tokens       *auth.TokenManager
	labelBaseURL string
}

func NewService(employees repo.EmployeeRepository, orders repo.OrderRepository, articles repo.ArticleRepository, tokens *auth.TokenManager, labelBaseURL string) *Service {
	return &Service{
		employees:    employees,
		orders:       orders,
		articles:     articles,
		tokens:       tokens,
		labelBaseURL: labelBaseURL,
	}
}

// AuthenticateCredentials logs an employee in by matriculation number and
// password.
func (s *Service) AuthenticateCredentials(matriculation, password string) (AuthResult, error) {
	employee, err := s.employees.GetByMatriculation(matriculation)
	if errors.Is(err, repo.ErrEmployeeNotFound) {
		return AuthResult{Error: "invalid credentials"}, nil
	}
	if err != nil {
		return AuthResult{}, err
	}

	if !employee.Active {
		return AuthResult{Error: "invalid credentials"}, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)) != nil {
		return AuthResult{Error: "invalid credentials"}, nil
	}

	token, err := s.tokens.Generate(employee, nil)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		OK:       true,
		Token:    token,
		Employee: employee.FirstName + " " + employee.LastName,
	}, nil
}

// AuthenticateCodes logs an employee in from a pair of scanned codes: the
// employee badge EAN and an order production number. The session is bound
// to that order.
func (s *Service) AuthenticateCodes(employeeCode, orderCode string) (AuthResult, error) {
	employee, err := s.employees.GetByEANCode(employeeCode)
	if errors.Is(err, repo.ErrEmployeeNotFound) {
		return AuthResult{Error: "unknown employee code"}, nil
	}
	if err != nil {
		return AuthResult{}, err
	}
	if !employee.Active {
		return AuthResult{Error: "unknown employee code"}, nil
	}

	order, err := s.orders.GetByProductionNumber(orderCode)
	if errors.Is(err, repo.ErrOrderNotFound) {
		return AuthResult{Error: "unknown order code"}, nil
	}
	if err != nil {
		return AuthResult{}, err
	}
	if order.Status.Terminal() {
		return AuthResult{Error: "order already closed"}, nil
	}

	token, err := s.tokens.Generate(employee, &order.UUID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		OK:        true,
		Token:     token,
		Employee:  employee.FirstName + " " + employee.LastName,
		OrderUUID: &order.UUID,
	}, nil
}

// authorize rejects order-bound sessions targeting a different order.
func authorize(session auth.Session, orderUUID uuid.UUID) string {
	if session.OrderUUID != nil && *session.OrderUUID != orderUUID {
		return "session not authorized for this order"
	}
	return ""
}

func actionFailure(err error) (ActionResult, error) {
	switch {
	case errors.Is(err, repo.ErrOrderNotFound):
		return ActionResult{Error: "order not found"}, nil
	case errors.Is(err, repo.ErrOrderSuspended):
		return ActionResult{Error: "order is suspended"}, nil
	case errors.Is(err, repo.ErrOrderTerminal):
		return ActionResult{Error: "order already closed"}, nil
	}
	return ActionResult{}, err
}

// AddPalletQuantity advances the order by one pallet, as configured on the
// article's packaging plan, and returns the label print URL.
func (s *Service) AddPalletQuantity(session auth.Session, orderUUID uuid.UUID) (ActionResult, error) {
	if msg := authorize(session, orderUUID); msg != "" {
		return ActionResult{Error: msg}, nil
	}

	order, err := s.orders.GetByUUID(orderUUID)
	if err != nil {
		return actionFailure(err)
	}
	article, err := s.articles.GetByUUID(order.ArticleUUID)
	if err != nil {
		if errors.Is(err, repo.ErrArticleNotFound) {
			return ActionResult{Error: "article not found for order"}, nil
		}
		return ActionResult{}, err
	}

	updated, applied, err := s.orders.AddWorkedQuantity(orderUUID, article.PalletIncrement())
	if err != nil {
		return actionFailure(err)
	}

	return ActionResult{
		OK:              true,
		Order:           &updated,
		AppliedQuantity: applied,
		LabelURL:        fmt.Sprintf("%s/labels/%s", s.labelBaseURL, updated.UUID),
	}, nil
}

// AddManualQuantity advances the order by an explicit quantity. The handler
// boundary rejects qty <= 0 before it reaches here, but the guard stays as
// the last line of defense.
func (s *Service) AddManualQuantity(session auth.Session, orderUUID uuid.UUID, qty int) (ActionResult, error) {
	if msg := authorize(session, orderUUID); msg != "" {
		return ActionResult{Error: msg}, nil
	}
	if qty <= 0 {
		return ActionResult{Error: "quantity must be positive"}, nil
	}

	updated, applied, err := s.orders.AddWorkedQuantity(orderUUID, qty)
	if err != nil {
		return actionFailure(err)
	}

	return ActionResult{
		OK:              true,
		Order:           &updated,
		AppliedQuantity: applied,
	}, nil
}

// SuspendOrder pauses an order. Resuming is an administrative action, not a
// portal one.
func (s *Service) SuspendOrder(session auth.Session, orderUUID uuid.UUID) (ActionResult, error) {
	if msg := authorize(session, orderUUID); msg != "" {
		return ActionResult{Error: msg}, nil
	}

	updated, err := s.orders.Suspend(orderUUID)
	if err != nil {
		return actionFailure(err)
	}
	return ActionResult{OK: true, Order: &updated}, nil
}

// ConfirmAutocontrollo records the quality self-check. Confirming twice is
// a no-op, reported through AlreadyConfirmed.
func (s *Service) ConfirmAutocontrollo(session auth.Session, orderUUID uuid.UUID) (ActionResult, error) {
	if msg := authorize(session, orderUUID); msg != "" {
		return ActionResult{Error: msg}, nil
	}

	updated, already, err := s.orders.ConfirmAutocontrollo(orderUUID)
	if err != nil {
		return actionFailure(err)
	}
	return ActionResult{OK: true, Order: &updated, AlreadyConfirmed: already}, nil
}

// GetOrder returns an order for the portal detail view, honoring the
// session's order binding.
func (s *Service) GetOrder(session auth.Session, orderUUID uuid.UUID) (models.Order, string, error) {
	if msg := authorize(session, orderUUID); msg != "" {
		return models.Order{}, msg, nil
	}
	order, err := s.orders.GetByUUID(orderUUID)
	if errors.Is(err, repo.ErrOrderNotFound) {
		return models.Order{}, "order not found", nil
	}
	if err != nil {
		return models.Order{}, "", err
	}
	return order, "", nil
}

// InFlightOrders lists the orders the portal dashboard shows: launched,
// in-progress and suspended, soonest delivery first. An order-bound session
// only sees its own order.
func (s *Service) InFlightOrders(session auth.Session) ([]models.Order, error) {
	if session.OrderUUID != nil {
		order, err := s.orders.GetByUUID(*session.OrderUUID)
		if errors.Is(err, repo.ErrOrderNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []models.Order{order}, nil
	}

	orders, _, err := s.orders.Filter(repo.OrderFilter{
		Statuses: []models.OrderStatus{models.OrderLaunched, models.OrderInProgress, models.OrderSuspended},
		Sort:     "delivery_date",
	})
	return orders, err
}
