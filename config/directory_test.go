package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDirectory = `
employees:
  - device_id: "0"
    first_name: Max
    last_name: Mustermann
  - device_id: "1"
    id: erika
    first_name: Erika
    last_name: Musterfrau
customers:
  - key: Home-Herrengasse
    name: Familie Huber
    address: Herrengasse 1, 8010 Graz
    hourly_rate: 65.5
    assignment: Gartenpflege
  - key: Office-Annenstrasse
    hourly_rate: 80
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDirectory_YAML(t *testing.T) {
	path := writeFile(t, "directory.yaml", sampleDirectory)

	dir, err := LoadDirectory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dir.Employees) != 2 || len(dir.Customers) != 2 {
		t.Fatalf("unexpected directory: %+v", dir)
	}
	if dir.Customers[0].HourlyRate != 65.5 {
		t.Errorf("expected 65.5, got %f", dir.Customers[0].HourlyRate)
	}

	svcDir := dir.Build()
	emp, ok := svcDir.EmployeeFor("0")
	if !ok || emp.FullName() != "Max Mustermann" || emp.ID != "0" {
		t.Errorf("unexpected employee for device 0: %+v", emp)
	}
	emp, _ = svcDir.EmployeeFor("1")
	if emp.ID != "erika" {
		t.Errorf("expected erika, got %s", emp.ID)
	}

	c := svcDir.CustomerFor("Home-Herrengasse")
	if c.Name != "Familie Huber" || c.Assignment != "Gartenpflege" {
		t.Errorf("unexpected customer: %+v", c)
	}
	c = svcDir.CustomerFor("Office-Annenstrasse")
	if c.Name != "Office-Annenstrasse" || c.HourlyRate != 80 {
		t.Errorf("expected name to default to key, got %+v", c)
	}
}

func TestLoadDirectory_JSON(t *testing.T) {
	path := writeFile(t, "directory.json", `{
		"employees": [{"device_id": "0", "first_name": "Max", "last_name": "Mustermann"}],
		"customers": []
	}`)

	dir, err := LoadDirectory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dir.Employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(dir.Employees))
	}
}

func TestLoadDirectory_Missing(t *testing.T) {
	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestDirectoryValidate(t *testing.T) {
	tests := []struct {
		name    string
		dir     Directory
		wantErr string
	}{
		{"valid", Directory{
			Employees: []EmployeeEntry{{DeviceID: "0"}},
			Customers: []CustomerEntry{{Key: "A", HourlyRate: 10}},
		}, ""},
		{"missing device", Directory{Employees: []EmployeeEntry{{FirstName: "Max"}}}, "device_id: required"},
		{"duplicate device", Directory{Employees: []EmployeeEntry{{DeviceID: "0"}, {DeviceID: "0"}}}, "duplicate"},
		{"missing key", Directory{Customers: []CustomerEntry{{Name: "x"}}}, "key: required"},
		{"duplicate key", Directory{Customers: []CustomerEntry{{Key: "A"}, {Key: "A"}}}, "duplicate"},
		{"negative rate", Directory{Customers: []CustomerEntry{{Key: "A", HourlyRate: -1}}}, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dir.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
