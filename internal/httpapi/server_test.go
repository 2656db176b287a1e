package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	arbitrageApp "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/app"
	arbitrage "github.com/futarchy-fi/futarchy-orchestrator/business/arbitrage/domain"
	pricingApp "github.com/futarchy-fi/futarchy-orchestrator/business/pricing/app"
	registryApp "github.com/futarchy-fi/futarchy-orchestrator/business/registry/app"
	"github.com/futarchy-fi/futarchy-orchestrator/business/registry/infra/memory"
	"github.com/futarchy-fi/futarchy-orchestrator/internal/logger"
)

const (
	// 10 * 2^96 and 11 * 2^96: human prices 100 and 121.
	sqrt10 = "792281625142643375935439503360"
	sqrt11 = "871509787656907713528983453696"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	quotes, err := pricingApp.NewQuoteService(nil, log)
	if err != nil {
		t.Fatal(err)
	}
	arb, err := arbitrageApp.NewArbitrageService(arbitrage.ImpactSplitModel{}, log)
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine(log, http.NotFoundHandler(),
		&QuoteHandler{Service: quotes, ChainID: 100, DefaultSlippage: decimal.RequireFromString("0.03")},
		&ArbitrageHandler{Service: arb, ChainID: 100},
		&RegistryHandler{Service: registryApp.NewRegistryService(memory.NewStore(), log)},
	)
}

func do(t *testing.T, e *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func pool(addr, liquidity string) map[string]any {
	return map[string]any{
		"address":      addr,
		"token0":       map[string]any{"address": "0x0000000000000000000000000000000000000001", "symbol": "YES_GNO", "decimals": 18},
		"token1":       map[string]any{"address": "0x0000000000000000000000000000000000000002", "symbol": "YES_sDAI", "decimals": 18},
		"sqrtPriceX96": sqrt10,
		"liquidity":    liquidity,
	}
}

func TestQuoteSnapshot(t *testing.T) {
	e := newEngine(t)

	status, env := do(t, e, http.MethodPost, "/api/v1/quotes/snapshot", map[string]any{
		"isYesPool":           true,
		"isInputCompanyToken": true,
		"amount":              "0.1",
		"pool":                pool("0x00000000000000000000000000000000000000aa", "100000000000000000000000"),
	})
	if status != http.StatusOK || env.Code != 0 {
		t.Fatalf("status = %d, env = %+v", status, env)
	}
	var q quoteView
	if err := json.Unmarshal(env.Data, &q); err != nil {
		t.Fatal(err)
	}
	if q.TokenIn.Symbol != "YES_GNO" || q.TokenOut.Symbol != "YES_sDAI" {
		t.Errorf("tokens = %s -> %s", q.TokenIn.Symbol, q.TokenOut.Symbol)
	}
	if q.CurrentPoolPrice != "100" || q.StartSqrtPrice != sqrt10 {
		t.Errorf("current price %s sqrt %s", q.CurrentPoolPrice, q.StartSqrtPrice)
	}
	if q.AmountIn != "0.1" {
		t.Errorf("amountIn = %s", q.AmountIn)
	}
	expected := decimal.RequireFromString(q.ExpectedReceive)
	min := decimal.RequireFromString(q.MinReceive)
	if !min.LessThan(expected) || expected.GreaterThan(decimal.NewFromInt(10)) {
		t.Errorf("expected %s, min %s", expected, min)
	}
	if q.PriceImpact.Direction != "DOWN" {
		t.Errorf("impact direction = %s, want DOWN", q.PriceImpact.Direction)
	}
}

func TestQuote_Errors(t *testing.T) {
	e := newEngine(t)
	badSqrt := pool("0x00000000000000000000000000000000000000aa", "1000")
	badSqrt["sqrtPriceX96"] = "abc"

	tests := []struct {
		name   string
		path   string
		body   map[string]any
		status int
		code   string
	}{
		{
			name:   "bad sqrt price",
			path:   "/api/v1/quotes/snapshot",
			body:   map[string]any{"amount": "1", "pool": badSqrt},
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
		{
			name:   "missing pool",
			path:   "/api/v1/quotes/snapshot",
			body:   map[string]any{"amount": "1"},
			status: http.StatusNotFound,
			code:   "POOL_NOT_FOUND",
		},
		{
			name:   "slippage out of range",
			path:   "/api/v1/quotes/snapshot",
			body:   map[string]any{"amount": "1", "slippage": "1", "pool": pool("0x00000000000000000000000000000000000000aa", "1000")},
			status: http.StatusBadRequest,
			code:   "INVALID_SLIPPAGE",
		},
		{
			name:   "no ledger reader",
			path:   "/api/v1/quotes",
			body:   map[string]any{"proposal": "0x00000000000000000000000000000000000000f0", "amount": "1"},
			status: http.StatusServiceUnavailable,
			code:   "SERVICE_UNAVAILABLE",
		},
		{
			name:   "bad proposal",
			path:   "/api/v1/quotes",
			body:   map[string]any{"proposal": "nope", "amount": "1"},
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, e, http.MethodPost, tt.path, tt.body)
			if status != tt.status || env.Error != tt.code {
				t.Errorf("got %d %s (%s), want %d %s", status, env.Error, env.Message, tt.status, tt.code)
			}
			if env.Code != status {
				t.Errorf("envelope code %d != status %d", env.Code, status)
			}
		})
	}
}

func TestSimulateSnapshot(t *testing.T) {
	e := newEngine(t)

	status, env := do(t, e, http.MethodPost, "/api/v1/arbitrage/simulate/snapshot", map[string]any{
		"spotPrice":   "100",
		"probability": "0.5",
		"impact":      "0.42",
		"yesPool":     pool("0x00000000000000000000000000000000000000a1", "1000000000000000000"),
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d, env = %+v", status, env)
	}
	var res arbitrageView
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Targets.Yes != "121" || res.Model != "impact-split" {
		t.Errorf("targets = %+v model %s", res.Targets, res.Model)
	}
	yes := res.Yes
	if !yes.Found || yes.Error != "" {
		t.Fatalf("yes leg = %+v", yes)
	}
	if yes.TargetSqrtPrice != sqrt11 || yes.Amount1Delta != "1000000000000000000" {
		t.Errorf("yes target %s amount1 %s", yes.TargetSqrtPrice, yes.Amount1Delta)
	}
	if len(yes.Actions) != 2 || yes.Actions[0].Kind != "BUY" || yes.Actions[1].Kind != "SELL" || yes.Actions[1].Amount != "1" {
		t.Errorf("actions = %+v", yes.Actions)
	}
	if res.No.Found || len(res.No.Actions) != 0 || res.No.Amount0Delta != "0" {
		t.Errorf("no leg should be the not-found sentinel: %+v", res.No)
	}
}

func TestSimulateSnapshot_ZeroAddressPool(t *testing.T) {
	e := newEngine(t)

	status, env := do(t, e, http.MethodPost, "/api/v1/arbitrage/simulate/snapshot", map[string]any{
		"spotPrice":   "100",
		"probability": "0.5",
		"impact":      "0.42",
		"yesPool":     pool("0x00000000000000000000000000000000000000a1", "1000000000000000000"),
		"noPool":      pool("0x0000000000000000000000000000000000000000", "1000000000000000000"),
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d, env = %+v", status, env)
	}
	var res arbitrageView
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatal(err)
	}
	no := res.No
	if no.Found || no.Amount0Delta != "0" || no.Amount1Delta != "0" || no.TargetSqrtPrice != "0" || len(no.Actions) != 0 {
		t.Errorf("zero-address NO pool should be the sentinel: %+v", no)
	}
	if !res.Yes.Found || res.Yes.Amount1Delta == "0" {
		t.Errorf("yes leg = %+v", res.Yes)
	}

	status, env = do(t, e, http.MethodPost, "/api/v1/quotes/snapshot", map[string]any{
		"amount": "1",
		"pool":   pool("0x0000000000000000000000000000000000000000", "1000"),
	})
	if status != http.StatusNotFound || env.Error != "POOL_NOT_FOUND" {
		t.Errorf("zero-address quote: %d %s", status, env.Error)
	}
}

func TestSimulate_Errors(t *testing.T) {
	e := newEngine(t)

	status, env := do(t, e, http.MethodPost, "/api/v1/arbitrage/simulate/snapshot", map[string]any{
		"spotPrice": "100", "probability": "1.5", "impact": "0",
	})
	if status != http.StatusBadRequest || env.Error != "INVALID_PROBABILITY" {
		t.Errorf("probability: got %d %s", status, env.Error)
	}

	status, env = do(t, e, http.MethodPost, "/api/v1/arbitrage/simulate", map[string]any{
		"proposal": "0x00000000000000000000000000000000000000f0", "spotPrice": "100", "probability": "0.5", "impact": "0",
	})
	if status != http.StatusServiceUnavailable {
		t.Errorf("no reader: got %d %s", status, env.Error)
	}
}

func TestRegistryRoutes(t *testing.T) {
	e := newEngine(t)

	status, env := do(t, e, http.MethodPost, "/api/v1/registry/proposals", map[string]any{
		"proposal":            "0x7e9Fc0C3d6C1619d4914556ad2dEe6051Ce68418",
		"displayNameQuestion": "What will be the price of GNO",
		"metadata":            `{"category":"governance"}`,
	})
	if status != http.StatusOK {
		t.Fatalf("create proposal: %d %+v", status, env)
	}
	var p struct {
		ID string `json:"id"`
	}
	json.Unmarshal(env.Data, &p)

	status, env = do(t, e, http.MethodPost, "/api/v1/registry/organizations", map[string]any{"name": "GNOSIS DAO"})
	if status != http.StatusOK {
		t.Fatalf("create organization: %d %+v", status, env)
	}
	var o struct {
		ID string `json:"id"`
	}
	json.Unmarshal(env.Data, &o)

	link := "/api/v1/registry/organizations/" + o.ID + "/proposals"
	if status, env = do(t, e, http.MethodPost, link, map[string]any{"id": p.ID}); status != http.StatusOK {
		t.Fatalf("add proposal: %d %+v", status, env)
	}
	if status, env = do(t, e, http.MethodPost, link, map[string]any{"id": p.ID}); status != http.StatusConflict {
		t.Errorf("duplicate add: %d %s", status, env.Error)
	}

	status, env = do(t, e, http.MethodGet, link+"?offset=0&limit=10", nil)
	if status != http.StatusOK {
		t.Fatalf("list: %d %+v", status, env)
	}
	if total, _ := env.Meta["total"].(float64); total != 1 {
		t.Errorf("meta = %+v", env.Meta)
	}

	if status, env = do(t, e, http.MethodGet, "/api/v1/registry/organizations/not-a-uuid", nil); status != http.StatusBadRequest {
		t.Errorf("bad uuid: %d %s", status, env.Error)
	}
	status, env = do(t, e, http.MethodGet, "/api/v1/registry/aggregators/00000000-0000-0000-0000-000000000001", nil)
	if status != http.StatusNotFound || env.Error != "REGISTRY_RECORD_NOT_FOUND" {
		t.Errorf("unknown aggregator: %d %s", status, env.Error)
	}
	status, env = do(t, e, http.MethodPut, "/api/v1/registry/proposals/"+p.ID+"/metadata", map[string]any{"metadata": "{bad"})
	if status != http.StatusBadRequest || env.Error != "INVALID_FORMAT" {
		t.Errorf("bad metadata: %d %s", status, env.Error)
	}
}
