package store

import "xhsmonitor/pkg/models"

// AddAccount registers an account keyed by its account id. Returns false
// when the id is already taken.
func (s *Store) AddAccount(account *models.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := loadDocument[*models.Account](s.accountsPath)
	if err != nil {
		return false, err
	}

	if _, exists := accounts[account.AccountID]; exists {
		return false, nil
	}

	accounts[account.AccountID] = account
	if err := saveDocument(s.accountsPath, accounts); err != nil {
		return false, err
	}

	s.logger.InfoWithFields("account registered", map[string]interface{}{
		"account_id": account.AccountID,
		"username":   account.Username,
	})

	return true, nil
}

// GetAccount returns the account with the given id, or nil when absent.
func (s *Store) GetAccount(accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := loadDocument[*models.Account](s.accountsPath)
	if err != nil {
		return nil, err
	}

	return accounts[accountID], nil
}

// GetAllAccounts returns every registered account.
func (s *Store) GetAllAccounts() ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := loadDocument[*models.Account](s.accountsPath)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Account, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, a)
	}

	return result, nil
}

// UpdateAccount replaces a stored account. No-op returning false when absent.
func (s *Store) UpdateAccount(account *models.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := loadDocument[*models.Account](s.accountsPath)
	if err != nil {
		return false, err
	}

	if _, exists := accounts[account.AccountID]; !exists {
		return false, nil
	}

	accounts[account.AccountID] = account
	if err := saveDocument(s.accountsPath, accounts); err != nil {
		return false, err
	}

	return true, nil
}

// DeleteAccount removes an account. Returns false when the id was absent.
func (s *Store) DeleteAccount(accountID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := loadDocument[*models.Account](s.accountsPath)
	if err != nil {
		return false, err
	}

	if _, exists := accounts[accountID]; !exists {
		return false, nil
	}

	delete(accounts, accountID)
	if err := saveDocument(s.accountsPath, accounts); err != nil {
		return false, err
	}

	s.logger.InfoWithFields("account removed", map[string]interface{}{
		"account_id": accountID,
	})

	return true, nil
}
