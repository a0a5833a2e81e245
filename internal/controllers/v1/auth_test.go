package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/finadvisor/backend/internal/controllers/v1"
	"github.com/finadvisor/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestRegister() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/auth/register", v1.Credentials{
		Username: "newuser",
		Password: "test-password",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var response v1.TokenResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	assert.NotEmpty(suite.T(), response.Token)
	assert.Equal(suite.T(), "newuser", response.Username)
}

func (suite *TestSuiteStandard) TestRegisterUsernameTaken() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/auth/register", v1.Credentials{
		Username: "testuser",
		Password: "another-password",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &recorder)
}

func (suite *TestSuiteStandard) TestRegisterInvalid() {
	tests := []struct {
		name string
		body any
	}{
		{"empty body", ""},
		{"short password", v1.Credentials{Username: "someone", Password: "short"}},
		{"missing username", v1.Credentials{Password: "test-password"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.router, http.MethodPost, "/v1/auth/register", tt.body)
			test.AssertHTTPStatus(t, http.StatusBadRequest, &recorder)
		})
	}
}

func (suite *TestSuiteStandard) TestLogin() {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/auth/login", v1.Credentials{
		Username: "testuser",
		Password: "test-password",
	})
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.TokenResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.NotEmpty(suite.T(), response.Token)
}

// Wrong password and unknown username are indistinguishable.
func (suite *TestSuiteStandard) TestLoginRejected() {
	for _, credentials := range []v1.Credentials{
		{Username: "testuser", Password: "wrong-password"},
		{Username: "nobody", Password: "test-password"},
	} {
		recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/auth/login", credentials)
		test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, &recorder)
	}
}

func (suite *TestSuiteStandard) TestRequireAuth() {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not a bearer token", "Basic dGVzdDp0ZXN0"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}

			recorder := test.Request(t, suite.router, http.MethodGet, "/v1/budget/info", nil, headers)
			test.AssertHTTPStatus(t, http.StatusUnauthorized, &recorder)
		})
	}
}

func (suite *TestSuiteStandard) TestAuthorizedAccess() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/budget/info", nil, suite.authHeader())
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)
}
