/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/allbin/rtcsync"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rtcsync",
	Short: "Synchronize a data logger's real-time clock over a serial link",
	Long: `Synchronize the real-time clock of an Arduino-class data logger.

The tool auto-detects the logger's serial port (or accepts one with --port),
performs the firmware handshake and pushes the current UTC time. One attempt
per invocation, no retries.

Two timing strategies are available via --strategy:
- boundary (default): transmit exactly as the host clock crosses a whole
  second, compensating for an assumed link delay
- immediate: transmit the moment the device announces WAKE_UP

Example usage:
  rtcsync                         # auto-detect the logger
  rtcsync --port /dev/ttyACM0     # Linux
  rtcsync --port COM3             # Windows
  rtcsync --strategy immediate -t 60
  rtcsync --ntp pool.ntp.org      # sample from an NTP-disciplined clock
  rtcsync --list-ports            # show available ports`,
	Run: func(cmd *cobra.Command, args []string) {
		if listPorts, _ := cmd.Flags().GetBool("list-ports"); listPorts {
			printPorts()
			return
		}
		runSync(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rtcsync.yaml)")

	rootCmd.Flags().StringP("port", "p", "", "Serial port (e.g. /dev/ttyACM0, COM3); auto-detected when omitted")
	rootCmd.Flags().IntP("baudrate", "b", 9600, "Serial baudrate (default: 9600)")
	rootCmd.Flags().IntP("timeout", "t", 0, "Communication timeout in seconds (default: 30 for immediate wake-wait, 5 for boundary response-wait)")
	rootCmd.Flags().BoolP("list-ports", "l", false, "List available serial ports and exit")
	rootCmd.Flags().String("strategy", "boundary", "Timing strategy: boundary or immediate")
	rootCmd.Flags().Duration("settle", 2*time.Second, "Grace period after opening the port (the board resets on open)")
	rootCmd.Flags().Duration("link-delay", rtcsync.DefaultLinkDelay, "Assumed transmission delay compensated by the boundary strategy")
	rootCmd.Flags().String("ntp", "", "NTP server to discipline the reference clock (default: host clock)")

	viper.BindPFlag("baudrate", rootCmd.Flags().Lookup("baudrate"))
	viper.BindPFlag("strategy", rootCmd.Flags().Lookup("strategy"))
	viper.BindPFlag("ntp", rootCmd.Flags().Lookup("ntp"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rtcsync" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rtcsync")
	}

	viper.SetEnvPrefix("rtcsync")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runSync(cmd *cobra.Command) {
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true)

	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("40")).
		Bold(true)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	device, _ := cmd.Flags().GetString("port")
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	settle, _ := cmd.Flags().GetDuration("settle")
	linkDelay, _ := cmd.Flags().GetDuration("link-delay")
	baudRate := viper.GetInt("baudrate")
	strategy := viper.GetString("strategy")
	ntpServer := viper.GetString("ntp")

	if device == "" {
		fmt.Println("No port specified, attempting to auto-detect the logger...")
		detected, err := rtcsync.DetectPort()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s Could not auto-detect the logger port: %v\n", errorStyle.Render("✗"), err)
			fmt.Fprintln(os.Stderr, "Please specify the port manually using --port.")
			fmt.Fprintln(os.Stderr, "Use --list-ports to see available ports.")
			os.Exit(1)
		}
		fmt.Printf("%s Auto-detected logger on port: %s\n", infoStyle.Render("⚡"), detected)
		device = detected
	}

	opts := []rtcsync.Option{
		rtcsync.WithBaudRate(baudRate),
		rtcsync.WithSettleDelay(settle),
		rtcsync.WithLogf(func(format string, args ...any) {
			fmt.Printf(format+"\n", args...)
		}),
	}

	switch strategy {
	case "immediate":
		opts = append(opts, rtcsync.WithTiming(rtcsync.ImmediateTiming{}))
		if timeoutSec > 0 {
			opts = append(opts, rtcsync.WithWakeTimeout(time.Duration(timeoutSec)*time.Second))
		}
	case "boundary":
		opts = append(opts, rtcsync.WithTiming(rtcsync.BoundaryTiming{LinkDelay: linkDelay}))
		if timeoutSec > 0 {
			opts = append(opts, rtcsync.WithResponseTimeout(time.Duration(timeoutSec)*time.Second))
		}
	default:
		fmt.Fprintf(os.Stderr, "%s Unknown strategy %q (expected boundary or immediate)\n", errorStyle.Render("✗"), strategy)
		os.Exit(1)
	}

	if ntpServer != "" {
		fmt.Printf("%s Querying NTP server %s...\n", infoStyle.Render("⚡"), ntpServer)
		clock, err := rtcsync.NewNTPClock(ntpServer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("✗"), err)
			os.Exit(1)
		}
		fmt.Printf("Host clock offset: %v\n", clock.Offset())
		opts = append(opts, rtcsync.WithClock(clock))
	}

	fmt.Printf("%s Connecting to logger on %s at %d baud (%s timing)...\n",
		infoStyle.Render("⚡"), device, baudRate, strategy)

	result, err := rtcsync.Sync(device, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n%s Time synchronization failed: %v\n", errorStyle.Render("✗"), err)
		os.Exit(1)
	}

	fmt.Printf("\n%s Time synchronization completed: %s UTC\n",
		successStyle.Render("✓"), result.SyncedAt.UTC().Format("2006-01-02 15:04:05"))
	if result.RTC != "" {
		fmt.Printf("  Device readback: %s\n", result.RTC)
	}
}

// printPorts lists every serial port the way the hardware reports it. Used
// by the --list-ports flag; the list subcommand offers richer output.
func printPorts() {
	descriptors, err := rtcsync.ListPortDescriptors()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
		os.Exit(1)
	}

	if len(descriptors) == 0 {
		fmt.Println("No serial ports found.")
		return
	}

	fmt.Println("Available serial ports:")
	for i, d := range descriptors {
		fmt.Printf("  %d. %s - %s\n", i+1, d.Device, d.Description)
		if d.Manufacturer != "" {
			fmt.Printf("     Manufacturer: %s\n", d.Manufacturer)
		}
	}
}
