package handlers

import (
	"context"
	"time"

	"github.com/vaultkeep/vaultkeep/internal/models"
	"github.com/vaultkeep/vaultkeep/internal/server/storage"
)

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // email -> User
	createError error
	getError    error
	updateError error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.getError != nil {
		return false, m.getError
	}
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockUserStorage) UpdateProfile(ctx context.Context, user *models.User) error {
	if m.updateError != nil {
		return m.updateError
	}
	for email, existing := range m.users {
		if existing.ID == user.ID {
			if other, taken := m.users[user.Email]; taken && other.ID != user.ID {
				return storage.ErrUserAlreadyExists
			}
			delete(m.users, email)
			m.users[user.Email] = user
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if m.updateError != nil {
		return m.updateError
	}
	for _, user := range m.users {
		if user.ID == userID {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (string, error) {
	if m.updateError != nil {
		return "", m.updateError
	}
	user, ok := m.users[email]
	if !ok {
		return "", storage.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return user.ID, nil
}

// mockSessionStorage is a mock implementation of SessionStorage for testing
type mockSessionStorage struct {
	sessions  map[string]*models.Session // userID -> Session
	saveError error
	getError  error
}

func newMockSessionStorage() *mockSessionStorage {
	return &mockSessionStorage{sessions: make(map[string]*models.Session)}
}

func (m *mockSessionStorage) SaveSession(ctx context.Context, session *models.Session) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.sessions[session.UserID] = session
	return nil
}

func (m *mockSessionStorage) GetSession(ctx context.Context, userID string) (*models.Session, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	session, ok := m.sessions[userID]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	return session, nil
}

func (m *mockSessionStorage) DeleteSession(ctx context.Context, userID string) error {
	if _, ok := m.sessions[userID]; !ok {
		return storage.ErrSessionNotFound
	}
	delete(m.sessions, userID)
	return nil
}

func (m *mockSessionStorage) DeleteExpiredSessions(ctx context.Context) (int, error) {
	deleted := 0
	now := time.Now()
	for userID, session := range m.sessions {
		if session.ExpiresAt.Before(now) {
			delete(m.sessions, userID)
			deleted++
		}
	}
	return deleted, nil
}

// mockCodeStorage is a mock implementation of CodeStorage for testing
type mockCodeStorage struct {
	codes        map[string]*models.OneTimeCode // purpose+email -> code
	saveError    error
	consumeError error
}

func newMockCodeStorage() *mockCodeStorage {
	return &mockCodeStorage{codes: make(map[string]*models.OneTimeCode)}
}

func codeKey(purpose models.CodePurpose, email string) string {
	return string(purpose) + ":" + email
}

func (m *mockCodeStorage) SaveCode(ctx context.Context, code *models.OneTimeCode) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.codes[codeKey(code.Purpose, code.Email)] = code
	return nil
}

func (m *mockCodeStorage) ConsumeCode(ctx context.Context, purpose models.CodePurpose, email, submitted string) (bool, error) {
	if m.consumeError != nil {
		return false, m.consumeError
	}
	key := codeKey(purpose, email)
	code, ok := m.codes[key]
	if !ok {
		return false, storage.ErrCodeNotFound
	}
	delete(m.codes, key)
	return code.Code == submitted && !code.Expired(time.Now()), nil
}

// mockAccountStorage is a mock implementation of AccountStorage for testing
type mockAccountStorage struct {
	accounts    map[string]*models.SiteAccount // accountID -> account
	createError error
	listError   error
}

func newMockAccountStorage() *mockAccountStorage {
	return &mockAccountStorage{accounts: make(map[string]*models.SiteAccount)}
}

func (m *mockAccountStorage) CreateAccount(ctx context.Context, account *models.SiteAccount) error {
	if m.createError != nil {
		return m.createError
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountStorage) GetUserAccounts(ctx context.Context, userID string) ([]*models.SiteAccount, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	accounts := []*models.SiteAccount{}
	for _, account := range m.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (m *mockAccountStorage) UpdateAccount(ctx context.Context, account *models.SiteAccount) error {
	existing, ok := m.accounts[account.ID]
	if !ok || existing.UserID != account.UserID {
		return storage.ErrAccountNotFound
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountStorage) DeleteAccount(ctx context.Context, userID, accountID string) error {
	existing, ok := m.accounts[accountID]
	if !ok || existing.UserID != userID {
		return storage.ErrAccountNotFound
	}
	delete(m.accounts, accountID)
	return nil
}

// mockMailer captures sends instead of talking to an SMTP server
type mockMailer struct {
	sent      []sentMail
	sendError error
}

type sentMail struct {
	to      string
	code    string
	purpose models.CodePurpose
}

func (m *mockMailer) SendSignupCode(ctx context.Context, to, code string) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.sent = append(m.sent, sentMail{to: to, code: code, purpose: models.CodeSignup})
	return nil
}

func (m *mockMailer) SendResetCode(ctx context.Context, to, code string) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.sent = append(m.sent, sentMail{to: to, code: code, purpose: models.CodeReset})
	return nil
}
