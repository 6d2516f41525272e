package models

// All returns every persisted model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserInfo{},
		&UserCertification{},
		&VerificationCode{},
		&VerificationCodeThrottle{},
		&AddressBook{},
		&ServiceCategory{},
		&ServiceProviderInfo{},
		&Certification{},
		&Service{},
		&Order{},
		&Payment{},
		&AfterSales{},
		&Review{},
	}
}
