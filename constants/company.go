package constants

// Company is a purchasing unit (filial) an order is raised for.
type Company struct {
	Code int
	Name string
}

// SeedCompanies is the unit list loaded into a fresh database.
var SeedCompanies = []Company{
	{Code: 1, Name: "Nutrane Pesqueira"},
	{Code: 2, Name: "Durancho Sertania"},
	{Code: 4, Name: "Nutrane Carpina"},
	{Code: 6, Name: "Nutrane Piaui"},
	{Code: 7, Name: "Nutrane Bahia"},
	{Code: 10, Name: "Nutrind"},
}
