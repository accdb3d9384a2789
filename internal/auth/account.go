package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole accepts the role names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCustomer:
		return RoleCustomer, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// AccountConfig is one account as it appears in configuration. Either
// Password or PasswordHash is set; a plain password is hashed on load.
type AccountConfig struct {
	Username     string `json:"username" yaml:"username"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty" yaml:"password_hash,omitempty"`
	Role         string `json:"role" yaml:"role"`
	Name         string `json:"name" yaml:"name"`
	Company      string `json:"company" yaml:"company"`
}

// DefaultAccountConfigs are the two built-in accounts.
func DefaultAccountConfigs() []AccountConfig {
	return []AccountConfig{
		{Username: "admin", Password: "1234", Role: string(RoleAdmin), Name: "관리자", Company: "신성오토텍"},
		{Username: "user", Password: "1234", Role: string(RoleCustomer), Name: "홍길동", Company: "현대자동차"},
	}
}

type account struct {
	hash      []byte
	principal Principal
}

// Principal is an authenticated account.
type Principal struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	Company  string `json:"company"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Accounts is the read-only account table.
type Accounts struct {
	byName map[string]account
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// NewAccounts validates cfgs and hashes plain passwords.
func NewAccounts(cfgs []AccountConfig) (*Accounts, error) {
	a := &Accounts{byName: make(map[string]account, len(cfgs))}
	for _, c := range cfgs {
		name := strings.TrimSpace(c.Username)
		if name == "" {
			return nil, fmt.Errorf("account without username")
		}
		if _, dup := a.byName[name]; dup {
			return nil, fmt.Errorf("duplicate account %q", name)
		}
		role, err := ParseRole(c.Role)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", name, err)
		}

		hash := c.PasswordHash
		if hash == "" {
			if c.Password == "" {
				return nil, fmt.Errorf("account %q has no password", name)
			}
			if hash, err = HashPassword(c.Password); err != nil {
				return nil, fmt.Errorf("account %q: %w", name, err)
			}
		}

		a.byName[name] = account{
			hash: []byte(hash),
			principal: Principal{
				Username: name,
				Role:     role,
				Name:     c.Name,
				Company:  strings.TrimSpace(c.Company),
			},
		}
	}
	return a, nil
}

// Authenticate checks the password and returns the account's principal.
// Unknown users and wrong passwords both give ErrUnauthorized.
func (a *Accounts) Authenticate(username, password string) (Principal, error) {
	acc, ok := a.byName[strings.TrimSpace(username)]
	if !ok {
		return Principal{}, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return Principal{}, ErrUnauthorized
	}
	return acc.principal, nil
}

// Lookup returns the principal of a known account.
func (a *Accounts) Lookup(username string) (Principal, bool) {
	acc, ok := a.byName[username]
	return acc.principal, ok
}

// CanSee reports whether p may see r. Administrators see every row;
// customers only rows of their own company.
func CanSee(r ledger.Record, p Principal) bool {
	if p.IsAdmin() {
		return true
	}
	if p.Company == "" {
		return false
	}
	return strings.TrimSpace(r.Company) == p.Company
}

// Visible filters records down to what p may see, keeping order.
func Visible(records []ledger.Record, p Principal) []ledger.Record {
	if p.IsAdmin() {
		return records
	}
	out := make([]ledger.Record, 0, len(records))
	for _, r := range records {
		if CanSee(r, p) {
			out = append(out, r)
		}
	}
	return out
}
