package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/finadvisor/backend/internal/controllers/v1"
	"github.com/finadvisor/backend/internal/types"
	"github.com/finadvisor/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestItem(editable v1.ItemEditable, expectedStatus ...int) v1.ItemResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/budget/items", editable, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), expectedStatus[0], &recorder)

	var response v1.ItemResponse
	if recorder.Code == http.StatusCreated {
		test.DecodeResponse(suite.T(), &recorder, &response)
	}

	return response
}

func testAmount(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func (suite *TestSuiteStandard) TestCreateItem() {
	response := suite.createTestItem(v1.ItemEditable{
		Name:     "工资",
		Scope:    "永久",
		Cadence:  "月度",
		Category: "收入",
		Amount:   testAmount(5000),
	})

	assert.Equal(suite.T(), "工资", response.Data.Name)
	assert.Equal(suite.T(), types.PermanentScope(), response.Data.Scope)
	assert.Equal(suite.T(), types.CadenceMonthly, response.Data.Cadence)
	assert.Equal(suite.T(), types.CategoryIncome, response.Data.Category)
	assert.NotEqual(suite.T(), uuid.Nil, response.Data.ID)
}

func (suite *TestSuiteStandard) TestCreateItemInvalid() {
	tests := []struct {
		name     string
		editable v1.ItemEditable
	}{
		{"missing amount", v1.ItemEditable{Name: "rent", Scope: "2025", Cadence: "Monthly", Category: "Expense"}},
		{"negative amount", v1.ItemEditable{Name: "rent", Scope: "2025", Cadence: "Monthly", Category: "Expense", Amount: testAmount(-1)}},
		{"unknown category", v1.ItemEditable{Name: "rent", Scope: "2025", Cadence: "Monthly", Category: "Revenue", Amount: testAmount(1)}},
		{"one-time permanent", v1.ItemEditable{Name: "rent", Scope: "永久", Cadence: "非月度", Category: "Expense", Amount: testAmount(1)}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.router, http.MethodPost, "/v1/budget/items", tt.editable, suite.authHeader())
			test.AssertHTTPStatus(t, http.StatusBadRequest, &recorder)
		})
	}
}

func (suite *TestSuiteStandard) TestDashboard() {
	suite.createTestItem(v1.ItemEditable{Name: "工资", Scope: "永久", Cadence: "月度", Category: "收入", Amount: testAmount(5000)})
	suite.createTestItem(v1.ItemEditable{Name: "房租", Scope: "永久", Cadence: "月度", Category: "支出", Amount: testAmount(2000)})
	suite.createTestItem(v1.ItemEditable{Name: "学费", Scope: "2025年", Cadence: "非月度", Category: "支出", Amount: testAmount(6000)})

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/dashboard?year=2025", nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.DashboardResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	assert.True(suite.T(), response.Data.TotalIncome.Equal(decimal.NewFromInt(60000)))
	assert.True(suite.T(), response.Data.TotalExpense.Equal(decimal.NewFromInt(30000)))
	assert.True(suite.T(), response.Data.Surplus.Equal(decimal.NewFromInt(30000)))
}

func (suite *TestSuiteStandard) TestDashboardYearParam() {
	for _, query := range []string{"", "?year=abc", "?year=99"} {
		recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/dashboard"+query, nil, suite.authHeader())
		test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	}
}

func (suite *TestSuiteStandard) TestGetItemsMonths() {
	suite.createTestItem(v1.ItemEditable{Name: "工资", Scope: "永久", Cadence: "月度", Category: "收入", Amount: testAmount(5000)})
	suite.createTestItem(v1.ItemEditable{Name: "学费", Scope: "2025年9月", Cadence: "非月度", Category: "支出", Amount: testAmount(6000)})

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/items?year=2025&months=1,2", nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.MonthItemsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	// the monthly item recurs in every month, the September one-time
	// item is filtered out
	assert.Len(suite.T(), response.Data.IncomeItems, 1)
	assert.Len(suite.T(), response.Data.ExpenseItems, 0)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/items?year=2025&months=all", nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data.ExpenseItems, 1)
}

func (suite *TestSuiteStandard) TestGetItemsMonthsInvalid() {
	for _, months := range []string{"abc", "0", "13", "1,,2"} {
		recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/items?year=2025&months="+months, nil, suite.authHeader())
		test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
	}
}

func (suite *TestSuiteStandard) TestUpdateItem() {
	created := suite.createTestItem(v1.ItemEditable{Name: "工资", Scope: "永久", Cadence: "月度", Category: "收入", Amount: testAmount(5000)})

	recorder := test.Request(suite.T(), suite.router, http.MethodPatch,
		fmt.Sprintf("/v1/budget/items/%s", created.Data.ID),
		map[string]any{"amount": 6000}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.ItemResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	assert.True(suite.T(), response.Data.Amount.Equal(decimal.NewFromInt(6000)))
	assert.Equal(suite.T(), "工资", response.Data.Name)
}

func (suite *TestSuiteStandard) TestUpdateItemNotFound() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPatch,
		fmt.Sprintf("/v1/budget/items/%s", uuid.New()),
		map[string]any{"amount": 6000}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)

	recorder = test.Request(suite.T(), suite.router, http.MethodPatch, "/v1/budget/items/NotAUUID",
		map[string]any{"amount": 6000}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestDeleteItem() {
	created := suite.createTestItem(v1.ItemEditable{Name: "学费", Scope: "2025年", Cadence: "非月度", Category: "支出", Amount: testAmount(6000)})

	recorder := test.Request(suite.T(), suite.router, http.MethodDelete,
		fmt.Sprintf("/v1/budget/items/%s", created.Data.ID), nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	// the year's dashboard is zeroed, not gone
	recorder = test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/dashboard?year=2025", nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.DashboardResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.TotalExpense.IsZero())
}

// Items of another user are indistinguishable from absent ones.
func (suite *TestSuiteStandard) TestItemsAreOwnerScoped() {
	created := suite.createTestItem(v1.ItemEditable{Name: "工资", Scope: "永久", Cadence: "月度", Category: "收入", Amount: testAmount(5000)})

	otherToken := suite.registerUser("otheruser")
	otherHeader := map[string]string{"Authorization": "Bearer " + otherToken}

	recorder := test.Request(suite.T(), suite.router, http.MethodDelete,
		fmt.Sprintf("/v1/budget/items/%s", created.Data.ID), nil, otherHeader)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/info", nil, otherHeader)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.InfoResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Empty(suite.T(), response.Data.Items)
}

func (suite *TestSuiteStandard) TestInfo() {
	suite.createTestItem(v1.ItemEditable{Name: "工资", Scope: "2024年", Cadence: "月度", Category: "收入", Amount: testAmount(5000)})
	suite.createTestItem(v1.ItemEditable{Name: "学费", Scope: "2025年", Cadence: "非月度", Category: "支出", Amount: testAmount(6000)})

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/info", nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.InfoResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	assert.Len(suite.T(), response.Data.Items, 2)
	assert.Equal(suite.T(), []int{2024, 2025}, response.Data.AvailableYears)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/info?year=2025", nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data.Items, 1)
}
