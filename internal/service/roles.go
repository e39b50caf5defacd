package service

// Subject roles issued by the identity provider.
const (
	RoleCustomer   = "customer"
	RoleTechnician = "technician"
)
