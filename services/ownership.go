package services

import "github.com/ececomak/Dental-Appointment/models"

// requireOwner is the single ownership check every gated operation funnels
// through: the authenticated principal's email must equal the email of the
// account owning the targeted record. An empty owner email (broken linkage)
// also denies.
func requireOwner(principalEmail, ownerEmail string) error {
	if ownerEmail == "" || principalEmail != ownerEmail {
		return models.ErrForbidden
	}
	return nil
}

// patientOwnerEmail walks appointment -> patient -> account.
func patientOwnerEmail(a *models.Appointment) string {
	return a.Patient.UserAccount.Email
}

// dentistOwnerEmail walks appointment -> dentist -> account.
func dentistOwnerEmail(a *models.Appointment) string {
	return a.Dentist.UserAccount.Email
}
