package storage

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/finance"
	"finance-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DBTestSuite provides a test suite for transaction and budget storage
type DBTestSuite struct {
	suite.Suite
	db    *DB
	ctx   context.Context
	user  *models.User
	other *models.User
}

// SetupTest runs before each test
func (suite *DBTestSuite) SetupTest() {
	db, err := NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.ctx = context.Background()

	suite.user, err = db.CreateUser(suite.ctx, "alice", "hash")
	require.NoError(suite.T(), err)
	suite.other, err = db.CreateUser(suite.ctx, "bob", "hash")
	require.NoError(suite.T(), err)
}

// TearDownTest runs after each test
func (suite *DBTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *DBTestSuite) newTransaction(userID int64, kind models.Kind, amount float64, category string, date time.Time) *models.Transaction {
	t := &models.Transaction{
		UserID:   userID,
		Kind:     kind,
		Amount:   amount,
		Category: category,
		Currency: "CAD",
		Date:     date,
	}
	require.NoError(suite.T(), suite.db.CreateTransaction(suite.ctx, t))
	return t
}

func (suite *DBTestSuite) TestCreateTransactionAssignsID() {
	t := suite.newTransaction(suite.user.ID, models.KindExpense, 10.50, "food", time.Now())
	assert.NotZero(suite.T(), t.ID)

	second := suite.newTransaction(suite.user.ID, models.KindExpense, 20, "food", time.Now())
	assert.Greater(suite.T(), second.ID, t.ID)
}

func (suite *DBTestSuite) TestGetTransactionRoundTripsInUTC() {
	loc := time.FixedZone("EST", -5*3600)
	date := time.Date(2024, 3, 10, 20, 30, 0, 0, loc)
	created := suite.newTransaction(suite.user.ID, models.KindIncome, 1500, "salary", date)

	got, err := suite.db.GetTransaction(suite.ctx, suite.user.ID, created.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.KindIncome, got.Kind)
	assert.Equal(suite.T(), 1500.0, got.Amount)
	assert.Equal(suite.T(), "salary", got.Category)
	assert.Equal(suite.T(), "CAD", got.Currency)
	assert.Equal(suite.T(), time.UTC, got.Date.Location())
	assert.True(suite.T(), got.Date.Equal(date))
}

func (suite *DBTestSuite) TestListTransactionsFiltersByRange() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.newTransaction(suite.user.ID, models.KindExpense, 10, "food", base)
	suite.newTransaction(suite.user.ID, models.KindExpense, 20, "food", base.AddDate(0, 1, 0))
	suite.newTransaction(suite.user.ID, models.KindExpense, 30, "food", base.AddDate(0, 2, 0))

	all, err := suite.db.ListTransactions(suite.ctx, suite.user.ID, models.DateRange{})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), all, 3)
	assert.Equal(suite.T(), 10.0, all[0].Amount, "expected insertion order")

	window := models.DateRange{Start: base.AddDate(0, 1, 0), End: base.AddDate(0, 2, 0)}
	inRange, err := suite.db.ListTransactions(suite.ctx, suite.user.ID, window)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), inRange, 2, "bounds are inclusive")
	assert.Equal(suite.T(), 20.0, inRange[0].Amount)
	assert.Equal(suite.T(), 30.0, inRange[1].Amount)

	startOnly, err := suite.db.ListTransactions(suite.ctx, suite.user.ID, models.DateRange{Start: base.AddDate(0, 2, 0)})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), startOnly, 1)
}

func (suite *DBTestSuite) TestTransactionsAreScopedByUser() {
	t := suite.newTransaction(suite.user.ID, models.KindExpense, 10, "food", time.Now())
	suite.newTransaction(suite.other.ID, models.KindExpense, 99, "food", time.Now())

	mine, err := suite.db.ListTransactions(suite.ctx, suite.user.ID, models.DateRange{})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), mine, 1)

	_, err = suite.db.GetTransaction(suite.ctx, suite.other.ID, t.ID)
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound)

	err = suite.db.DeleteTransaction(suite.ctx, suite.other.ID, t.ID)
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound)

	foreign := *t
	foreign.UserID = suite.other.ID
	foreign.Amount = 1
	err = suite.db.UpdateTransaction(suite.ctx, &foreign)
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound)

	got, err := suite.db.GetTransaction(suite.ctx, suite.user.ID, t.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 10.0, got.Amount)
}

func (suite *DBTestSuite) TestUpdateAndDeleteTransaction() {
	t := suite.newTransaction(suite.user.ID, models.KindExpense, 10, "food", time.Now())

	t.Kind = models.KindIncome
	t.Amount = 42
	t.Category = "gifts"
	require.NoError(suite.T(), suite.db.UpdateTransaction(suite.ctx, t))

	got, err := suite.db.GetTransaction(suite.ctx, suite.user.ID, t.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.KindIncome, got.Kind)
	assert.Equal(suite.T(), 42.0, got.Amount)
	assert.Equal(suite.T(), "gifts", got.Category)

	require.NoError(suite.T(), suite.db.DeleteTransaction(suite.ctx, suite.user.ID, t.ID))
	_, err = suite.db.GetTransaction(suite.ctx, suite.user.ID, t.ID)
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound)
}

func (suite *DBTestSuite) TestNaiveTimestampsReadAsUTC() {
	_, err := suite.db.conn.Exec(
		"INSERT INTO transactions (user_id, type, amount, category, currency, date) VALUES (?, 'expense', 5, 'food', 'CAD', ?)",
		suite.user.ID, "2024-06-01 12:00:00.000000",
	)
	require.NoError(suite.T(), err)

	list, err := suite.db.ListTransactions(suite.ctx, suite.user.ID, models.DateRange{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), list[0].Date)
	assert.Equal(suite.T(), time.UTC, list[0].Date.Location())
}

func (suite *DBTestSuite) TestUnreadableDatesAreSkipped() {
	suite.newTransaction(suite.user.ID, models.KindExpense, 10, "food", time.Now())
	_, err := suite.db.conn.Exec(
		"INSERT INTO transactions (user_id, type, amount, category, currency, date) VALUES (?, 'expense', 5, 'food', 'CAD', 'yesterday')",
		suite.user.ID,
	)
	require.NoError(suite.T(), err)
	_, err = suite.db.conn.Exec(
		"INSERT INTO budgets (user_id, category, amount, start_date, end_date) VALUES (?, 'food', 5, 'soon', '2024-01-31')",
		suite.user.ID,
	)
	require.NoError(suite.T(), err)

	list, err := suite.db.ListTransactions(suite.ctx, suite.user.ID, models.DateRange{})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), list, 1)

	budgets, err := suite.db.ListBudgets(suite.ctx, suite.user.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), budgets)
}

func (suite *DBTestSuite) TestUnreadableRowsCanBeRepairedOrDeleted() {
	svc := finance.NewService(suite.db, finance.NewNormalizer("CAD", nil, nil))
	insert := func(query string) int64 {
		res, err := suite.db.conn.Exec(query, suite.user.ID)
		require.NoError(suite.T(), err)
		id, err := res.LastInsertId()
		require.NoError(suite.T(), err)
		return id
	}
	broken := insert("INSERT INTO transactions (user_id, type, amount, category, currency, date) VALUES (?, 'expense', 5, 'food', 'CAD', 'yesterday')")
	stale := insert("INSERT INTO transactions (user_id, type, amount, category, currency, date) VALUES (?, 'expense', 7, 'food', 'CAD', 'last week')")
	budget := insert("INSERT INTO budgets (user_id, category, amount, start_date, end_date) VALUES (?, 'food', 5, 'soon', '2024-01-31')")

	_, err := svc.GetTransaction(suite.ctx, suite.user.ID, broken)
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound)
	_, err = svc.GetBudget(suite.ctx, suite.user.ID, budget)
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound)

	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	fixed, err := svc.UpdateTransaction(suite.ctx, suite.user.ID, broken, finance.TransactionInput{
		Kind: models.KindExpense, Amount: 5, Category: "food", Currency: "CAD", Date: jan,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), broken, fixed.ID)

	got, err := svc.GetTransaction(suite.ctx, suite.user.ID, broken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), jan, got.Date)

	require.NoError(suite.T(), svc.DeleteTransaction(suite.ctx, suite.user.ID, stale))
	assert.ErrorIs(suite.T(), svc.DeleteTransaction(suite.ctx, suite.user.ID, stale), finance.ErrNotFound)
	assert.ErrorIs(suite.T(), svc.DeleteTransaction(suite.ctx, suite.other.ID, broken), finance.ErrNotFound)

	require.NoError(suite.T(), svc.DeleteBudget(suite.ctx, suite.user.ID, budget))

	var remaining int
	require.NoError(suite.T(), suite.db.conn.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&remaining))
	assert.Equal(suite.T(), 1, remaining)
	require.NoError(suite.T(), suite.db.conn.QueryRow("SELECT COUNT(*) FROM budgets").Scan(&remaining))
	assert.Zero(suite.T(), remaining)
}

func (suite *DBTestSuite) TestBudgetCRUD() {
	b := &models.Budget{
		UserID:   suite.user.ID,
		Category: "food",
		Amount:   100,
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC),
	}
	require.NoError(suite.T(), suite.db.CreateBudget(suite.ctx, b))
	assert.NotZero(suite.T(), b.ID)

	got, err := suite.db.GetBudget(suite.ctx, suite.user.ID, b.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), b.Start, got.Start)
	assert.Equal(suite.T(), b.End, got.End, "nanoseconds survive the round trip")

	b.Amount = 250
	b.Category = "travel"
	require.NoError(suite.T(), suite.db.UpdateBudget(suite.ctx, b))

	list, err := suite.db.ListBudgets(suite.ctx, suite.user.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), 250.0, list[0].Amount)
	assert.Equal(suite.T(), "travel", list[0].Category)

	_, err = suite.db.GetBudget(suite.ctx, suite.other.ID, b.ID)
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound)
	assert.ErrorIs(suite.T(), suite.db.DeleteBudget(suite.ctx, suite.other.ID, b.ID), finance.ErrNotFound)

	require.NoError(suite.T(), suite.db.DeleteBudget(suite.ctx, suite.user.ID, b.ID))
	list, err = suite.db.ListBudgets(suite.ctx, suite.user.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)
}

func (suite *DBTestSuite) TestServiceOverSQLite() {
	svc := finance.NewService(suite.db, finance.NewNormalizer("CAD", nil, nil))
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordTransaction(suite.ctx, suite.user.ID, finance.TransactionInput{
		Kind: models.KindExpense, Amount: 150, Category: "food", Currency: "CAD", Date: jan,
	})
	require.NoError(suite.T(), err)
	_, err = svc.SetBudget(suite.ctx, suite.user.ID, finance.BudgetInput{
		Category: "food", Amount: 100,
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(suite.T(), err)

	alerts, err := svc.BudgetAlerts(suite.ctx, suite.user.ID, jan)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), alerts, 1)
	assert.Equal(suite.T(), "You have exceeded your budget for food by 50.00", alerts[0].Message)
}

func (suite *DBTestSuite) TestDuplicateUsername() {
	_, err := suite.db.CreateUser(suite.ctx, "alice", "other")
	assert.ErrorIs(suite.T(), err, ErrUsernameTaken)

	count, err := suite.db.UserCount(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, count)
}

func (suite *DBTestSuite) TestGetUserByUsername() {
	u, err := suite.db.GetUserByUsername(suite.ctx, "bob")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.other.ID, u.ID)

	_, err = suite.db.GetUserByUsername(suite.ctx, "nobody")
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound)
}

// SessionTestSuite provides a test suite for session operations
type SessionTestSuite struct {
	suite.Suite
	db   *DB
	ctx  context.Context
	user *models.User
}

// SetupTest runs before each test
func (suite *SessionTestSuite) SetupTest() {
	db, err := NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.ctx = context.Background()

	// Create a test user
	password, err := auth.HashPassword("testpass")
	require.NoError(suite.T(), err, "failed to hash password")

	user, err := suite.db.CreateUser(suite.ctx, "testuser", password)
	require.NoError(suite.T(), err, "failed to create test user")
	suite.user = user
}

// TearDownTest runs after each test
func (suite *SessionTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *SessionTestSuite) TestCreateAndValidateSession() {
	token, err := auth.GenerateSessionToken()
	require.NoError(suite.T(), err)

	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	err = suite.db.CreateSession(suite.ctx, token, suite.user.ID, expiresAt)
	require.NoError(suite.T(), err)

	// Validate the session
	sessionUser, err := suite.db.ValidateSession(suite.ctx, token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "testuser", sessionUser.Username)
}

func (suite *SessionTestSuite) TestValidateSessionWithInfo() {
	token, err := auth.GenerateSessionToken()
	require.NoError(suite.T(), err)

	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	err = suite.db.CreateSession(suite.ctx, token, suite.user.ID, expiresAt)
	require.NoError(suite.T(), err)

	info, err := suite.db.ValidateSessionWithInfo(suite.ctx, token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "testuser", info.User.Username)

	// Check that last_activity is recent
	timeSinceActivity := time.Since(info.LastActivity)
	assert.Less(suite.T(), timeSinceActivity, 5*time.Second, "LastActivity should be recent")
}

func (suite *SessionTestSuite) TestRenewSession() {
	token, err := auth.GenerateSessionToken()
	require.NoError(suite.T(), err)

	originalExpiry := time.Now().Add(30 * 24 * time.Hour)
	err = suite.db.CreateSession(suite.ctx, token, suite.user.ID, originalExpiry)
	require.NoError(suite.T(), err)

	// Wait a moment to ensure timestamps differ
	time.Sleep(10 * time.Millisecond)

	originalInfo, err := suite.db.ValidateSessionWithInfo(suite.ctx, token)
	require.NoError(suite.T(), err)

	newExpiry := time.Now().Add(60 * 24 * time.Hour)
	err = suite.db.RenewSession(suite.ctx, token, newExpiry)
	require.NoError(suite.T(), err)

	updatedInfo, err := suite.db.ValidateSessionWithInfo(suite.ctx, token)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), updatedInfo.LastActivity.After(originalInfo.LastActivity),
		"LastActivity should be updated after renewal")
	assert.True(suite.T(), updatedInfo.ExpiresAt.After(originalInfo.ExpiresAt),
		"ExpiresAt should be extended after renewal")
}

func (suite *SessionTestSuite) TestDeleteSession() {
	token, err := auth.GenerateSessionToken()
	require.NoError(suite.T(), err)

	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	err = suite.db.CreateSession(suite.ctx, token, suite.user.ID, expiresAt)
	require.NoError(suite.T(), err)

	_, err = suite.db.ValidateSession(suite.ctx, token)
	require.NoError(suite.T(), err, "session should exist before deletion")

	err = suite.db.DeleteSession(suite.ctx, token)
	require.NoError(suite.T(), err)

	_, err = suite.db.ValidateSession(suite.ctx, token)
	assert.ErrorIs(suite.T(), err, finance.ErrNotFound, "expected error after deleting session")
}

func (suite *SessionTestSuite) TestExpiredSessions() {
	token, err := auth.GenerateSessionToken()
	require.NoError(suite.T(), err)

	err = suite.db.CreateSession(suite.ctx, token, suite.user.ID, time.Now().Add(-time.Minute))
	require.NoError(suite.T(), err)

	_, err = suite.db.ValidateSession(suite.ctx, token)
	assert.Error(suite.T(), err, "expired session must not validate")

	removed, err := suite.db.CleanExpiredSessions(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), removed)
}

// Test suite runners
func TestDBSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-01T12:00:00Z", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-06-01T07:00:00-05:00", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-06-01 12:00:00+00:00", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-06-01 12:00:00.5", time.Date(2024, 6, 1, 12, 0, 0, 500000000, time.UTC)},
		{"2024-06-01T12:00", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseTime("not a date")
	assert.Error(t, err)
}
