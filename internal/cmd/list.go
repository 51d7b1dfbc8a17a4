/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/allbin/rtcsync"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all serial ports on the system with their device path,
description and manufacturer (when the hardware reports one).

Ports matching a known logger identifier (Arduino, CH340, FTDI, ttyACM, ...)
are marked as auto-detection candidates.`,
	Run: func(cmd *cobra.Command, args []string) {
		descriptors, err := rtcsync.ListPortDescriptors()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		if len(descriptors) == 0 {
			fmt.Println("No serial ports found.")
			return
		}

		if tableFormat, _ := cmd.Flags().GetBool("table"); tableFormat {
			renderPortTable(descriptors)
		} else {
			renderPortList(descriptors)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// isCandidate reports whether auto-detection would consider this port.
func isCandidate(d rtcsync.PortDescriptor) bool {
	device, err := rtcsync.FindLoggerPort([]rtcsync.PortDescriptor{d})
	return err == nil && device == d.Device
}

func renderPortList(descriptors []rtcsync.PortDescriptor) {
	fmt.Printf("Found %d serial port(s):\n", len(descriptors))
	for i, d := range descriptors {
		marker := " "
		if isCandidate(d) {
			marker = "*"
		}
		fmt.Printf("%s %d. %s - %s\n", marker, i+1, d.Device, d.Description)
		if d.Manufacturer != "" {
			fmt.Printf("     Manufacturer: %s\n", d.Manufacturer)
		}
	}
	fmt.Println("\n* auto-detection candidate")
}

func renderPortTable(descriptors []rtcsync.PortDescriptor) {
	const (
		columnDevice       = "device"
		columnDescription  = "description"
		columnManufacturer = "manufacturer"
		columnCandidate    = "candidate"
	)

	columns := []table.Column{
		table.NewColumn(columnDevice, "Device", 22),
		table.NewColumn(columnDescription, "Description", 34),
		table.NewColumn(columnManufacturer, "Manufacturer", 18),
		table.NewColumn(columnCandidate, "Logger?", 9),
	}

	rows := make([]table.Row, 0, len(descriptors))
	for _, d := range descriptors {
		candidate := ""
		if isCandidate(d) {
			candidate = "yes"
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnDevice:       d.Device,
			columnDescription:  d.Description,
			columnManufacturer: d.Manufacturer,
			columnCandidate:    candidate,
		}))
	}

	fmt.Println(table.New(columns).WithRows(rows).View())
}
