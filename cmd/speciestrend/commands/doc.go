// Package commands defines the speciestrend CLI and wires dependencies for subcommands.
//
// # Commands
//
//   - list         Print the species in the population table
//   - estimate     Estimate one species' extinction year
//   - report       Write the batch report (workbook, charts, Markdown)
//   - occurrences  Look up occurrence records for a species
//   - watch        Regenerate the report on a cron schedule
//   - history      Show recorded estimates for a species
//
// # Configuration
//
// The root command loads the YAML config named by --config (or
// SPECIESTREND_CONFIG) before any subcommand runs. Loaders for the population
// table, species metadata and estimate history read from that config.
package commands
