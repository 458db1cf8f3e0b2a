// Command templategen writes the built-in fixed-layout spreadsheet
// templates into TEMPLATE_DIR, with one ledger section per vehicle type of
// the configured rate table.
package main

import (
	"flag"
	"log"

	"transportbilling/billing"
	"transportbilling/logging"
	"transportbilling/templates"
)

func main() {
	dir := flag.String("dir", "templates/xlsx", "output directory")
	rates := flag.String("rates", "", "YAML rate table (defaults to the built-in rates)")
	flag.Parse()

	table, err := billing.LoadRates(*rates)
	if err != nil {
		log.Fatal(err)
	}
	if err := templates.WriteDefaults(*dir, table.VehicleTypes()); err != nil {
		log.Fatal(err)
	}
	logging.Infof("templategen: wrote %d templates to %s", len(templates.All), *dir)
}
