package handlers

import (
	"context"
	"net/http"

	"ordertrack/internal/models"
	"ordertrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser  *models.User
	registerToken string
	registerErr   error
	loginUser     *models.User
	loginToken    string
	loginErr      error
	changeErr     error
	getUser       *models.User
	getErr        error
	parseClaims   *service.TokenClaims
	parseErr      error

	lastRegisterUsername string
	lastRegisterPassword string
	lastLoginUsername    string
	lastChangeUserID     string
	lastChangeCurrent    string
	lastChangeNew        string
	lastGetUserID        string
	lastParseToken       string
}

func (m *mockAuth) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerUser, m.registerToken, m.registerErr
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	m.lastLoginUsername = username
	return m.loginUser, m.loginToken, m.loginErr
}

func (m *mockAuth) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	m.lastChangeUserID = userID
	m.lastChangeCurrent = currentPassword
	m.lastChangeNew = newPassword
	return m.changeErr
}

func (m *mockAuth) GetUser(ctx context.Context, userID string) (*models.User, error) {
	m.lastGetUserID = userID
	return m.getUser, m.getErr
}

func (m *mockAuth) ParseToken(accessToken string) (*service.TokenClaims, error) {
	m.lastParseToken = accessToken
	return m.parseClaims, m.parseErr
}

type mockOrders struct {
	listResp  []models.Order
	listErr   error
	getResp   *models.Order
	getErr    error
	createOut *models.Order
	createErr error
	updateOut *models.Order
	updateErr error
	deleteErr error
	statsResp models.OrderStats
	statsErr  error

	lastUserID  string
	lastOrderID string
	lastInput   service.OrderInput
	deleteCalls int
	statsCalls  int
	createCalls int
}

func (m *mockOrders) List(ctx context.Context, userID string) ([]models.Order, error) {
	m.lastUserID = userID
	return m.listResp, m.listErr
}

func (m *mockOrders) Get(ctx context.Context, userID, orderID string) (*models.Order, error) {
	m.lastUserID = userID
	m.lastOrderID = orderID
	return m.getResp, m.getErr
}

func (m *mockOrders) Create(ctx context.Context, userID string, in service.OrderInput) (*models.Order, error) {
	m.createCalls++
	m.lastUserID = userID
	m.lastInput = in
	return m.createOut, m.createErr
}

func (m *mockOrders) Update(ctx context.Context, userID, orderID string, in service.OrderInput) (*models.Order, error) {
	m.lastUserID = userID
	m.lastOrderID = orderID
	m.lastInput = in
	return m.updateOut, m.updateErr
}

func (m *mockOrders) Delete(ctx context.Context, userID, orderID string) error {
	m.deleteCalls++
	m.lastUserID = userID
	m.lastOrderID = orderID
	return m.deleteErr
}

func (m *mockOrders) Stats(ctx context.Context, userID string) (models.OrderStats, error) {
	m.statsCalls++
	m.lastUserID = userID
	return m.statsResp, m.statsErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, false)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
