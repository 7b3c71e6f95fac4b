package querycache

import "fmt"

func LeaveBalanceKey(employeeID string) string {
	return "leave-balance:" + employeeID
}

func EmployeeSalariesPrefix(employeeID string) string {
	return "employee-salaries:" + employeeID + ":"
}

func EmployeeSalariesKey(employeeID string, year, month int) string {
	return fmt.Sprintf("%s%04d-%02d", EmployeeSalariesPrefix(employeeID), year, month)
}
