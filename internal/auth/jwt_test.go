package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/fabbrica-mes/backoffice/internal/models"
	"github.com/google/uuid"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	employee := models.Employee{UUID: uuid.New(), MatriculationNumber: "M001"}

	token, err := m.Generate(employee, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := m.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.EmployeeUUID != employee.UUID {
		t.Error("employee UUID does not round-trip")
	}
	if session.Matriculation != "M001" {
		t.Errorf("expected matriculation M001, got %q", session.Matriculation)
	}
	if session.TokenID == "" {
		t.Error("expected a token ID for revocation")
	}
	if session.OrderUUID != nil {
		t.Error("credential token must not carry an order binding")
	}
}

func TestGenerateOrderBound(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	employee := models.Employee{UUID: uuid.New(), MatriculationNumber: "M001"}
	orderUUID := uuid.New()

	token, err := m.Generate(employee, &orderUUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := m.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.OrderUUID == nil || *session.OrderUUID != orderUUID {
		t.Error("expected the order binding to round-trip")
	}
}

func TestParseRejections(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	employee := models.Employee{UUID: uuid.New(), MatriculationNumber: "M001"}

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("different", time.Hour)
		token, err := other.Generate(employee, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		short := NewTokenManager("secret", -time.Minute)
		token, err := short.Generate(employee, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := short.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
