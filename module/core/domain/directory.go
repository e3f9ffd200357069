package domain

type Employee struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Customer struct {
	Key        CustomerKey `json:"key"`
	Name       string      `json:"name"`
	Address    string      `json:"address"`
	HourlyRate float64     `json:"hourly_rate"`
	Assignment string      `json:"assignment"`
}
