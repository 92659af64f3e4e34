package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Clinic model
type Clinic struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Address   string    `gorm:"column:address" json:"address"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Dentists  []Dentist `gorm:"foreignKey:ClinicID;references:ID" json:"-"`
}

func (Clinic) TableName() string {
	return "clinic"
}

// Dentist model. A dentist always belongs to exactly one clinic; every
// appointment booked with the dentist is stamped with that clinic.
type Dentist struct {
	ID            uint          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserAccountID uint          `gorm:"column:user_account_id;not null;index" json:"user_account_id"`
	ClinicID      uint          `gorm:"column:clinic_id;not null;index" json:"clinic_id"`
	FirstName     string        `gorm:"column:first_name;not null" json:"first_name"`
	LastName      string        `gorm:"column:last_name;not null;index" json:"last_name"`
	Specialty     string        `gorm:"column:specialty" json:"specialty"`
	Phone         string        `gorm:"column:phone" json:"phone"`
	UserAccount   UserAccount   `gorm:"foreignKey:UserAccountID;references:ID" json:"-"`
	Clinic        Clinic        `gorm:"foreignKey:ClinicID;references:ID" json:"-"`
	Appointments  []Appointment `gorm:"foreignKey:DentistID;references:ID" json:"-"`
}

func (Dentist) TableName() string {
	return "dentist"
}

// Patient model
type Patient struct {
	ID            uint          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserAccountID uint          `gorm:"column:user_account_id;not null;index" json:"user_account_id"`
	FirstName     string        `gorm:"column:first_name;not null" json:"first_name"`
	LastName      string        `gorm:"column:last_name;not null;index" json:"last_name"`
	DateOfBirth   string        `gorm:"column:date_of_birth" json:"date_of_birth"`
	Phone         string        `gorm:"column:phone" json:"phone"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UserAccount   UserAccount   `gorm:"foreignKey:UserAccountID;references:ID" json:"-"`
	Appointments  []Appointment `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// Treatment is a catalog entry. DefaultDurationMinutes may be null, in which
// case bookings fall back to the clinic-wide default slot length. Inactive
// treatments are hidden from new bookings but stay valid on historical line
// items, whose prices were snapshotted at booking time.
type Treatment struct {
	ID                     uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name                   string          `gorm:"column:name;not null;index" json:"name"`
	Description            string          `gorm:"column:description" json:"description"`
	DefaultPrice           decimal.Decimal `gorm:"column:default_price;type:numeric(10,2);not null" json:"default_price"`
	DefaultDurationMinutes *int            `gorm:"column:default_duration_minutes" json:"default_duration_minutes"`
	Active                 bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

func (Treatment) TableName() string {
	return "treatment"
}

// SeedClinicData inserts the initial clinic, its dentists and the treatment
// catalog so a fresh deployment is bookable out of the box.
func SeedClinicData(db *gorm.DB) error {
	thirty := 30
	sixty := 60

	return db.Transaction(func(tx *gorm.DB) error {
		clinic := Clinic{Name: "Downtown Dental Clinic", Address: "12 Elm Street", Phone: "+1-555-0100"}
		if err := tx.FirstOrCreate(&clinic, Clinic{Name: clinic.Name}).Error; err != nil {
			return err
		}

		dentists := []struct {
			email     string
			firstName string
			lastName  string
			specialty string
		}{
			{"dr.aydin@clinic.com", "Elif", "Aydin", "Orthodontics"},
			{"dr.tran@clinic.com", "Minh", "Tran", "Endodontics"},
		}
		for _, d := range dentists {
			var account UserAccount
			if err := tx.First(&account, "email = ?", d.email).Error; err != nil {
				return err
			}
			dentist := Dentist{
				UserAccountID: account.ID,
				ClinicID:      clinic.ID,
				FirstName:     d.firstName,
				LastName:      d.lastName,
				Specialty:     d.specialty,
			}
			if err := tx.FirstOrCreate(&dentist, Dentist{UserAccountID: account.ID}).Error; err != nil {
				return err
			}
		}

		patients := []struct {
			email     string
			firstName string
			lastName  string
		}{
			{"test@clinic.com", "Ada", "Yilmaz"},
			{"sam@clinic.com", "Sam", "Porter"},
		}
		for _, p := range patients {
			var account UserAccount
			if err := tx.First(&account, "email = ?", p.email).Error; err != nil {
				return err
			}
			patient := Patient{UserAccountID: account.ID, FirstName: p.firstName, LastName: p.lastName}
			if err := tx.FirstOrCreate(&patient, Patient{UserAccountID: account.ID}).Error; err != nil {
				return err
			}
		}

		treatments := []Treatment{
			{Name: "Checkup & Cleaning", DefaultPrice: decimal.NewFromInt(100), DefaultDurationMinutes: &thirty, Active: true},
			{Name: "Filling", DefaultPrice: decimal.NewFromInt(180), DefaultDurationMinutes: &thirty, Active: true},
			{Name: "Root Canal", DefaultPrice: decimal.NewFromInt(450), DefaultDurationMinutes: &sixty, Active: true},
			{Name: "Whitening", DefaultPrice: decimal.NewFromInt(250), DefaultDurationMinutes: nil, Active: true},
			{Name: "Amalgam Filling", DefaultPrice: decimal.NewFromInt(120), DefaultDurationMinutes: &thirty, Active: false},
		}
		for _, treatment := range treatments {
			if err := tx.FirstOrCreate(&treatment, Treatment{Name: treatment.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
