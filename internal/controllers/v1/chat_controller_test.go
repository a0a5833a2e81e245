package v1_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/finadvisor/backend/internal/chat"
	v1 "github.com/finadvisor/backend/internal/controllers/v1"
	"github.com/finadvisor/backend/internal/models"
	"github.com/finadvisor/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUpstream fakes the completions API and records every request
// body it saw.
func (suite *TestSuiteStandard) stubUpstream(reply string) (*httptest.Server, *[]map[string]any) {
	requests := &[]map[string]any{}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.Nil(suite.T(), json.NewDecoder(r.Body).Decode(&body))
		*requests = append(*requests, body)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))

	suite.T().Cleanup(upstream.Close)
	return upstream, requests
}

func (suite *TestSuiteStandard) chatRouter(reply string) *[]map[string]any {
	upstream, requests := suite.stubUpstream(reply)
	suite.router = suite.newRouter(chat.NewClient(chat.Config{BaseURL: upstream.URL, APIKey: "test-key"}))
	suite.token = suite.registerUser("chatuser")
	return requests
}

func (suite *TestSuiteStandard) TestSendMessage() {
	suite.chatRouter("Hello! How can I help with your finances?")

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat", v1.ChatRequest{
		Message: "Hi there",
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.ChatResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	assert.NotEqual(suite.T(), uuid.Nil, response.Data.SessionID)
	assert.Equal(suite.T(), models.RoleAssistant, response.Data.Message.Role)
	assert.Equal(suite.T(), "Hello! How can I help with your finances?", response.Data.Message.Content)

	// both the user message and the reply are stored
	recorder = test.Request(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/v1/chat/sessions/%s/messages", response.Data.SessionID), nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var messages v1.MessageListResponse
	test.DecodeResponse(suite.T(), &recorder, &messages)

	require.Len(suite.T(), messages.Data, 2)
	assert.Equal(suite.T(), models.RoleUser, messages.Data[0].Role)
	assert.Equal(suite.T(), "Hi there", messages.Data[0].Content)
}

func (suite *TestSuiteStandard) TestSendMessageBudgetMode() {
	requests := suite.chatRouter("Your budget looks healthy.")

	suite.createTestItem(v1.ItemEditable{Name: "工资", Scope: "永久", Cadence: "月度", Category: "收入", Amount: testAmount(5000)})

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat", v1.ChatRequest{
		Message:    "How is my budget?",
		BudgetMode: true,
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	// the snapshot went upstream as a system message
	require.Len(suite.T(), *requests, 1)
	rendered, err := json.Marshal((*requests)[0]["messages"])
	require.Nil(suite.T(), err)
	assert.Contains(suite.T(), string(rendered), "totalIncome")
	assert.Contains(suite.T(), string(rendered), "工资")
}

func (suite *TestSuiteStandard) TestSendMessageContinuesSession() {
	suite.chatRouter("Understood.")

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat", v1.ChatRequest{
		Message: "First message",
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var first v1.ChatResponse
	test.DecodeResponse(suite.T(), &recorder, &first)

	sessionID := first.Data.SessionID
	recorder = test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat", v1.ChatRequest{
		Message:   "Second message",
		SessionID: &sessionID,
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var second v1.ChatResponse
	test.DecodeResponse(suite.T(), &recorder, &second)
	assert.Equal(suite.T(), sessionID, second.Data.SessionID)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/v1/chat/sessions/%s/messages", sessionID), nil, suite.authHeader())
	var messages v1.MessageListResponse
	test.DecodeResponse(suite.T(), &recorder, &messages)
	assert.Len(suite.T(), messages.Data, 4)
}

func (suite *TestSuiteStandard) TestSendMessageUpstreamDown() {
	suite.router = suite.newRouter(chat.NewClient(chat.Config{BaseURL: "http://127.0.0.1:1", APIKey: "test-key"}))
	suite.token = suite.registerUser("chatuser")

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat", v1.ChatRequest{
		Message: "Hello?",
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
}

func (suite *TestSuiteStandard) TestSendMessageUnconfigured() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat", v1.ChatRequest{
		Message: "Hello?",
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusBadGateway, &recorder)
}

func (suite *TestSuiteStandard) TestSessionLifecycle() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat/sessions", v1.SessionEditable{
		Title:       "Budget planning",
		SessionType: models.SessionTypeBudget,
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var created v1.SessionResponse
	test.DecodeResponse(suite.T(), &recorder, &created)
	assert.Equal(suite.T(), models.SessionTypeBudget, created.Data.SessionType)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, "/v1/chat/sessions", nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var sessions v1.SessionListResponse
	test.DecodeResponse(suite.T(), &recorder, &sessions)
	require.Len(suite.T(), sessions.Data, 1)
	assert.Equal(suite.T(), int64(0), sessions.Data[0].MessageCount)

	recorder = test.Request(suite.T(), suite.router, http.MethodDelete,
		fmt.Sprintf("/v1/chat/sessions/%s", created.Data.ID), nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/v1/chat/sessions/%s/messages", created.Data.ID), nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

func (suite *TestSuiteStandard) TestSessionInvalidType() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat/sessions", v1.SessionEditable{
		SessionType: "assistant",
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

// Sessions of another user are indistinguishable from absent ones.
func (suite *TestSuiteStandard) TestSessionsAreOwnerScoped() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/chat/sessions", v1.SessionEditable{
		Title: "Private",
	}, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var created v1.SessionResponse
	test.DecodeResponse(suite.T(), &recorder, &created)

	otherToken := suite.registerUser("otheruser")
	otherHeader := map[string]string{"Authorization": "Bearer " + otherToken}

	recorder = test.Request(suite.T(), suite.router, http.MethodDelete,
		fmt.Sprintf("/v1/chat/sessions/%s", created.Data.ID), nil, otherHeader)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}
