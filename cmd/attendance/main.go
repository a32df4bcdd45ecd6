package main

import (
	"gnc-attendance/cmd/attendance/commands"
	"gnc-attendance/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
