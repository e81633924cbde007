// internal/tests/auth_test.go
package tests

import (
	"net/http"
	"regexp"
)

var resetLink = regexp.MustCompile(`token=([A-Za-z0-9]+)`)

func (suite *APITestSuite) TestUserRegistration() {
	data := suite.register("Jane@Example.com", "TestPass123!")
	suite.Equal("jane@example.com", data.User.Email)
	suite.NotEmpty(data.Token)
	suite.NotEmpty(data.RefreshToken)

	w, env := suite.request(http.MethodGet, "/api/v1/auth/me", data.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(env.Success)
	suite.NotContains(w.Body.String(), "password")
}

func (suite *APITestSuite) TestEmailWhitespaceIsTrimmed() {
	data := suite.register(" Pad@Example.com ", "TestPass123!")
	suite.Equal("pad@example.com", data.User.Email)

	w, env := suite.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "  PAD@example.com",
		"password": "TestPass123!",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.True(env.Success)

	w, env = suite.request(http.MethodPut, "/api/v1/users/profile", data.Token, map[string]string{
		"email": " New.Pad@Example.com\t",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Contains(string(env.Data), `"email":"new.pad@example.com"`)
}

func (suite *APITestSuite) TestRegistrationConflict() {
	suite.register("jane@example.com", "TestPass123!")

	w, env := suite.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":     "jane@example.com",
		"password":  "OtherPass123!",
		"full_name": "Jane Again",
	})
	suite.Equal(http.StatusConflict, w.Code)
	suite.False(env.Success)
	suite.Equal("CONFLICT", env.Error.Code)
}

func (suite *APITestSuite) TestRegistrationValidation() {
	w, env := suite.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":     "not-an-email",
		"password":  "123",
		"full_name": "Jane",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", env.Error.Code)
	suite.Contains(string(env.Error.Details), `"field":"email"`)
	suite.Contains(string(env.Error.Details), `"field":"password"`)

	req := "{not json"
	w, env = suite.request(http.MethodPost, "/api/v1/auth/register", "", req)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("BAD_REQUEST", env.Error.Code)
}

func (suite *APITestSuite) TestUserLogin() {
	suite.register("jane@example.com", "TestPass123!")

	w, env := suite.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "TestPass123!",
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.True(env.Success)

	var data authData
	suite.decode(env, &data)
	suite.NotEmpty(data.Token)

	w, env = suite.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "WrongPass",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("UNAUTHORIZED", env.Error.Code)
}

func (suite *APITestSuite) TestRefreshToken() {
	data := suite.register("jane@example.com", "TestPass123!")

	w, env := suite.request(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": data.RefreshToken,
	})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var refreshed authData
	suite.decode(env, &refreshed)
	suite.NotEmpty(refreshed.Token)

	w, _ = suite.request(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": data.Token,
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestProtectedRoutesNeedToken() {
	w, env := suite.request(http.MethodGet, "/api/v1/auth/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Authentication required", env.Error.Message)

	w, env = suite.request(http.MethodGet, "/api/v1/auth/me", "", nil, "Accept-Language", "zh-TW,zh;q=0.9")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("需要登入驗證", env.Error.Message)

	w, _ = suite.request(http.MethodGet, "/api/v1/orders/my", "expired.or.bogus", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestChangePassword() {
	data := suite.register("jane@example.com", "TestPass123!")

	w, _ := suite.request(http.MethodPost, "/api/v1/auth/change-password", data.Token, map[string]string{
		"current_password": "wrong",
		"new_password":     "NewPass123!",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/v1/auth/change-password", data.Token, map[string]string{
		"current_password": "TestPass123!",
		"new_password":     "NewPass123!",
	})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	w, _ = suite.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "NewPass123!",
	})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestPasswordResetFlow() {
	suite.register("jane@example.com", "TestPass123!")

	w, _ := suite.request(http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email": "jane@example.com",
	})
	suite.Equal(http.StatusOK, w.Code)

	// unknown addresses get the same answer
	w, _ = suite.request(http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email": "ghost@example.com",
	})
	suite.Equal(http.StatusOK, w.Code)

	sent := suite.mailer.Sent()
	suite.Require().Len(sent, 2) // welcome + reset
	match := resetLink.FindStringSubmatch(sent[1].Body)
	suite.Require().Len(match, 2)

	reset := map[string]string{"token": match[1], "new_password": "ResetPass123!"}
	w, _ = suite.request(http.MethodPost, "/api/v1/auth/reset-password", "", reset)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	w, env := suite.request(http.MethodPost, "/api/v1/auth/reset-password", "", reset)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_STATE", env.Error.Code)

	w, _ = suite.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "ResetPass123!",
	})
	suite.Equal(http.StatusOK, w.Code)
}
