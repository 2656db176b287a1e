package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDefaultStatusCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodePoolNotFound, http.StatusNotFound},
		{CodeRegistryRecordNotFound, http.StatusNotFound},
		{CodeInvalidSlippage, http.StatusBadRequest},
		{CodeInsufficientLiquidity, http.StatusUnprocessableEntity},
		{CodeTargetUnreachable, http.StatusUnprocessableEntity},
		{CodeServiceUnavailable, http.StatusServiceUnavailable},
		{CodeEthereumConnectionFailed, http.StatusServiceUnavailable},
		{CodeCircuitOpen, http.StatusServiceUnavailable},
		{CodeContractCallFailed, http.StatusBadGateway},
		{CodeRegistryDuplicateLink, http.StatusConflict},
		{CodeRateLimitExceeded, http.StatusTooManyRequests},
		{CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code).StatusCode; got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("quote: %w", NotFound(CodePoolNotFound, "YES pool"))

	if !errors.Is(err, New(CodePoolNotFound)) {
		t.Error("wrapped error should match its code")
	}
	if errors.Is(err, New(CodeProposalNotFound)) {
		t.Error("different code should not match")
	}
	if GetCode(err) != CodePoolNotFound || StatusCode(err) != http.StatusNotFound {
		t.Errorf("code %s status %d", GetCode(err), StatusCode(err))
	}
}

func TestForeignErrors(t *testing.T) {
	err := errors.New("boom")
	if GetCode(err) != CodeUnknownError {
		t.Errorf("code = %s", GetCode(err))
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Errorf("status = %d", StatusCode(err))
	}
	if kv := LogFields(err); len(kv) != 2 || kv[1] != err {
		t.Errorf("fields = %v", kv)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, CodeInternalError, "x") != nil {
		t.Error("nil should stay nil")
	}

	cause := errors.New("dial tcp: refused")
	w := Wrap(cause, CodeContractCallFailed, "slot0")
	if !errors.Is(w, cause) || w.Code != CodeContractCallFailed || w.StatusCode != http.StatusInternalServerError {
		t.Errorf("wrapped = %+v", w)
	}

	existing := Validation(CodeInvalidAmount, "")
	if got := Wrap(existing, CodeInternalError, "amount"); got != existing || got.Context != "amount" {
		t.Errorf("existing AppError should be reused with context filled: %+v", got)
	}
}

func TestLogFields(t *testing.T) {
	err := External(CodeEthereumRPCError, "eth_call", errors.New("timeout"))
	kv := LogFields(err)
	want := []any{"error_code", "ETHEREUM_RPC_ERROR", "error", err.Message, "error_context", "eth_call", "cause", "timeout"}
	if len(kv) != len(want) {
		t.Fatalf("fields = %v", kv)
	}
	for i := range want {
		if kv[i] != want[i] {
			t.Errorf("field %d = %v, want %v", i, kv[i], want[i])
		}
	}
}
