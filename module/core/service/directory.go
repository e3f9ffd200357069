package service

import "github.com/nandanugg/fieldtime/module/core/domain"

// Directory is the read-only reference data loaded at startup.
type Directory struct {
	employees map[domain.DeviceID]domain.Employee
	customers map[domain.CustomerKey]domain.Customer
}

func NewDirectory(employees map[domain.DeviceID]domain.Employee, customers []domain.Customer) *Directory {
	d := &Directory{
		employees: make(map[domain.DeviceID]domain.Employee, len(employees)),
		customers: make(map[domain.CustomerKey]domain.Customer, len(customers)),
	}
	for id, emp := range employees {
		if emp.ID == "" {
			emp.ID = string(id)
		}
		d.employees[id] = emp
	}
	for _, c := range customers {
		d.customers[c.Key] = c
	}
	return d
}

func (d *Directory) EmployeeFor(deviceID domain.DeviceID) (domain.Employee, bool) {
	emp, ok := d.employees[deviceID]
	return emp, ok
}

// CustomerFor never fails: an unknown key yields a customer named after the
// key with no address and a zero rate.
func (d *Directory) CustomerFor(key domain.CustomerKey) domain.Customer {
	if c, ok := d.customers[key]; ok {
		return c
	}
	return domain.Customer{Key: key, Name: string(key)}
}
