package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	UserRoleFarmer         UserRole = "farmer"
	UserRoleLandowner      UserRole = "landowner"
	UserRoleEquipmentOwner UserRole = "equipment_owner"
	UserRoleAdmin          UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleFarmer, UserRoleLandowner, UserRoleEquipmentOwner, UserRoleAdmin:
		return true
	}
	return false
}

const passwordHashCost = 12

// User is an account holder. Balance is only ever changed by settlement.
type User struct {
	ID           int32           `json:"user_id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	Password     string          `json:"-"` // plaintext, cleared by BeforeCreate
	PasswordHash string          `json:"-"`
	Role         UserRole        `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedOn    time.Time       `json:"created_on"`
}

// BeforeCreate runs before the user row is first persisted.
func (u *User) BeforeCreate() error {
	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), passwordHashCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)
		u.Password = ""
	}
	if u.Balance.IsZero() {
		u.Balance = DefaultStartingBalance
	}
	u.Balance = RoundMoney(u.Balance)
	return nil
}
