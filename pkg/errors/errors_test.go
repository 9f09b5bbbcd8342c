package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"duplo-orders/domain/order"
	"duplo-orders/domain/transaction"
)

func TestFromDomainErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err        error
		wantCode   ErrorCode
		wantStatus int
	}{
		{order.ErrOrderNotFound, CodeOrderNotFound, http.StatusNotFound},
		{transaction.ErrTransactionNotFound, CodeTransactionNotFound, http.StatusNotFound},
		{order.ErrDuplicateOrderNumber, CodeDuplicateOrderNumber, http.StatusConflict},
		{order.ErrEmptyItems, CodeValidation, http.StatusBadRequest},
		{order.ErrInvalidQuantity, CodeValidation, http.StatusBadRequest},
		{order.ErrMissingBusinessID, CodeValidation, http.StatusBadRequest},
	}
	for _, tc := range cases {
		appErr := FromDomainError(tc.err)
		if appErr.Code != tc.wantCode {
			t.Errorf("%v: code = %s, want %s", tc.err, appErr.Code, tc.wantCode)
		}
		if appErr.HTTPStatusCode() != tc.wantStatus {
			t.Errorf("%v: status = %d, want %d", tc.err, appErr.HTTPStatusCode(), tc.wantStatus)
		}
	}
}

func TestFromDomainErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("saga step failed: %w", order.ErrOrderNotFound)
	appErr := FromDomainError(wrapped)
	if appErr.Code != CodeOrderNotFound {
		t.Errorf("code = %s, want order not found for a wrapped sentinel", appErr.Code)
	}
}

func TestFromDomainErrorUnknownCollapsesToInternal(t *testing.T) {
	appErr := FromDomainError(stderrors.New("connection reset by peer"))
	if appErr.Code != CodeInternal {
		t.Errorf("code = %s, want internal", appErr.Code)
	}
	if appErr.Message == "connection reset by peer" {
		t.Error("internal error message must not expose the underlying error")
	}
	if appErr.HTTPStatusCode() != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", appErr.HTTPStatusCode())
	}
}

func TestFromDomainErrorPassesThroughAppError(t *testing.T) {
	original := Validation("businessId is required")
	appErr := FromDomainError(original)
	if appErr != original {
		t.Error("an AppError must pass through unchanged")
	}
}

func TestFromDomainErrorNil(t *testing.T) {
	if FromDomainError(nil) != nil {
		t.Error("nil must map to nil")
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("gone"))
	if !Is(err, CodeNotFound) {
		t.Error("Is failed to find the code through wrapping")
	}
	if Is(err, CodeConflict) {
		t.Error("Is matched the wrong code")
	}
}
