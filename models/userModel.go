package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles. The service only distinguishes the two parties of an
// appointment; administration happens outside this system.
const (
	RolePatient = "PATIENT"
	RoleDentist = "DENTIST"
)

// UserAccount represents a login identity. Ownership checks throughout the
// system compare the authenticated principal's email against the email of the
// account linked to the targeted patient or dentist.
type UserAccount struct {
	ID           uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Email        string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null;column:password_hash" json:"-"`
	Role         string    `gorm:"size:20;not null;column:role;check:role IN ('PATIENT','DENTIST')" json:"role"`
	Active       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (UserAccount) TableName() string {
	return "user_account"
}

// SeedUserAccounts inserts the initial login accounts.
func SeedUserAccounts(db *gorm.DB) error {
	initialAccounts := []struct {
		email    string
		password string
		role     string
	}{
		{"test@clinic.com", "123456", RolePatient},
		{"sam@clinic.com", "123456", RolePatient},
		{"dr.aydin@clinic.com", "123456", RoleDentist},
		{"dr.tran@clinic.com", "123456", RoleDentist},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, a := range initialAccounts {
			var existing UserAccount
			err := tx.First(&existing, "email = ?", a.email).Error
			if err == nil {
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			account := UserAccount{
				Email:        a.email,
				PasswordHash: string(hash),
				Role:         a.role,
				Active:       true,
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
