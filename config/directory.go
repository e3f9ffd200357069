package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/service"
)

type EmployeeEntry struct {
	DeviceID  string `mapstructure:"device_id"`
	ID        string `mapstructure:"id"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
}

type CustomerEntry struct {
	Key        string  `mapstructure:"key"`
	Name       string  `mapstructure:"name"`
	Address    string  `mapstructure:"address"`
	HourlyRate float64 `mapstructure:"hourly_rate"`
	Assignment string  `mapstructure:"assignment"`
}

// Directory is the employee and customer catalog read at startup.
type Directory struct {
	Employees []EmployeeEntry `mapstructure:"employees"`
	Customers []CustomerEntry `mapstructure:"customers"`
}

// LoadDirectory reads a YAML, JSON or TOML directory file; the format follows
// the file extension.
func LoadDirectory(path string) (*Directory, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}

	var dir Directory
	if err := v.Unmarshal(&dir); err != nil {
		return nil, fmt.Errorf("decode directory %s: %w", path, err)
	}
	if err := dir.Validate(); err != nil {
		return nil, fmt.Errorf("directory %s: %w", path, err)
	}
	return &dir, nil
}

func (d *Directory) Validate() error {
	devices := make(map[string]bool, len(d.Employees))
	for i, e := range d.Employees {
		if e.DeviceID == "" {
			return fmt.Errorf("employees[%d].device_id: required", i)
		}
		if devices[e.DeviceID] {
			return fmt.Errorf("employees[%d].device_id: duplicate %q", i, e.DeviceID)
		}
		devices[e.DeviceID] = true
	}

	keys := make(map[string]bool, len(d.Customers))
	for i, c := range d.Customers {
		if c.Key == "" {
			return fmt.Errorf("customers[%d].key: required", i)
		}
		if keys[c.Key] {
			return fmt.Errorf("customers[%d].key: duplicate %q", i, c.Key)
		}
		if c.HourlyRate < 0 {
			return fmt.Errorf("customers[%d].hourly_rate: must not be negative", i)
		}
		keys[c.Key] = true
	}
	return nil
}

func (d *Directory) Build() *service.Directory {
	employees := make(map[domain.DeviceID]domain.Employee, len(d.Employees))
	for _, e := range d.Employees {
		employees[domain.DeviceID(e.DeviceID)] = domain.Employee{
			ID:        e.ID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
		}
	}

	customers := make([]domain.Customer, 0, len(d.Customers))
	for _, c := range d.Customers {
		name := c.Name
		if name == "" {
			name = c.Key
		}
		customers = append(customers, domain.Customer{
			Key:        domain.CustomerKey(c.Key),
			Name:       name,
			Address:    c.Address,
			HourlyRate: c.HourlyRate,
			Assignment: c.Assignment,
		})
	}
	return service.NewDirectory(employees, customers)
}
