package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vitebski/customer-data-cleaner/internal/assessor"
	"github.com/vitebski/customer-data-cleaner/internal/cleaner"
	"github.com/vitebski/customer-data-cleaner/internal/config"
	"github.com/vitebski/customer-data-cleaner/internal/generator"
	"github.com/vitebski/customer-data-cleaner/internal/report"
	"github.com/vitebski/customer-data-cleaner/internal/storage"
	"github.com/vitebski/customer-data-cleaner/internal/utils"
)

func main() {
	var (
		records        int
		seed           int64
		rawFile        string
		cleanedFile    string
		configPath     string
		envFile        string
		logLevel       string
		realistic      bool
		reformatPhones bool
		skipGenerate   bool
		generateOnly   bool
		assessOnly     bool
		verify         bool
	)

	rootCmd := &cobra.Command{
		Use:   "customer-data-cleaner",
		Short: "A tool to generate dirty customer data and clean it",
		Long: `Customer Data Cleaner

A Go tool that generates synthetic customer data with injected quality
defects and runs it through a cleaning pipeline: quality assessment,
missing-value imputation, deduplication, format standardization and
outlier clamping.`,
		Run: func(cmd *cobra.Command, args []string) {
			// Setup logging
			logger := utils.SetupLogging(logLevel)

			// Load environment variables
			utils.LoadEnvironmentVariables(envFile, logger)

			// Resolve configuration from file, environment and defaults
			cfg, err := config.Load(configPath, logger)
			if err != nil {
				logger.Errorf("Invalid configuration: %v", err)
				os.Exit(1)
			}

			// Explicit flags win over file and environment
			if cmd.Flags().Changed("records") {
				cfg.Records = records
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("raw-file") {
				cfg.RawPath = rawFile
			}
			if cmd.Flags().Changed("cleaned-file") {
				cfg.CleanedPath = cleanedFile
			}
			if cmd.Flags().Changed("realistic") {
				cfg.Realistic = realistic
			}
			if cmd.Flags().Changed("reformat-phones") {
				cfg.ReformatPhones = reformatPhones
			}
			if err := cfg.Validate(); err != nil {
				logger.Errorf("Invalid configuration: %v", err)
				os.Exit(1)
			}

			if generateOnly && skipGenerate {
				logger.Error("--generate-only and --skip-generate are mutually exclusive")
				os.Exit(1)
			}

			// Create components
			store := storage.NewCSVStore(logger)
			qualityAssessor := assessor.NewQualityAssessor(logger)
			dataCleaner := cleaner.NewCustomerDataCleaner(
				qualityAssessor,
				cleaner.Options{ReformatPhones: cfg.ReformatPhones},
				logger,
			)

			// Generate the raw dataset unless an existing file is being cleaned
			if !skipGenerate {
				dataGenerator := generator.NewCustomerGenerator(cfg.Seed, cfg.Realistic, logger)
				raw, err := dataGenerator.Generate(cfg.Records)
				if err != nil {
					logger.Errorf("Failed to generate customer data: %v", err)
					os.Exit(1)
				}
				if err := store.Save(cfg.RawPath, raw); err != nil {
					logger.Errorf("Failed to save raw data: %v", err)
					os.Exit(1)
				}
			}

			// If generate-only mode, exit here
			if generateOnly {
				logger.Info("Generate-only mode, exiting without cleaning")
				return
			}

			// Load the raw dataset from disk
			raw, err := store.Load(cfg.RawPath)
			if err != nil {
				logger.Errorf("Failed to load raw data: %v", err)
				os.Exit(1)
			}

			// Print pre-clean quality assessment
			assessment := qualityAssessor.Assess(raw)
			utils.PrintAssessment(assessment)

			// If assess-only mode, exit here
			if assessOnly {
				logger.Info("Assess-only mode, exiting without cleaning")
				return
			}

			// Run the cleaning pipeline
			cleaned, runReport, err := dataCleaner.Clean(raw)
			if err != nil {
				logger.Errorf("Cleaning failed: %v", err)
				os.Exit(1)
			}

			// Save the cleaned dataset
			if err := store.Save(cfg.CleanedPath, cleaned); err != nil {
				logger.Errorf("Failed to save cleaned data: %v", err)
				os.Exit(1)
			}

			// Print the cleaning report and run summary
			renderer := report.NewRenderer()
			if err := renderer.Print(runReport); err != nil {
				logger.Errorf("Failed to render cleaning report: %v", err)
				os.Exit(1)
			}
			utils.PrintRunSummary(runReport)

			// Verify the cleaned table if requested
			if verify {
				result := utils.VerifyCleanedTable(cleaned, runReport, logger)
				utils.PrintVerificationResults(result)
				if !result.Success {
					os.Exit(1)
				}
			}
		},
	}

	// Define flags
	rootCmd.Flags().IntVarP(&records, "records", "r", 10000, "Number of base records to generate")
	rootCmd.Flags().Int64VarP(&seed, "seed", "s", 42, "Seed for the deterministic generator")
	rootCmd.Flags().StringVar(&rawFile, "raw-file", "data/raw_customer_data.csv", "Path of the raw CSV file")
	rootCmd.Flags().StringVar(&cleanedFile, "cleaned-file", "data/cleaned_customer_data.csv", "Path of the cleaned CSV file")
	rootCmd.Flags().StringVar(&configPath, "config-path", ".", "Directory searched for config.yaml")
	rootCmd.Flags().StringVarP(&envFile, "env-file", "e", ".env", "Path to .env file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&realistic, "realistic", false, "Synthesize realistic names and emails instead of the fixed pools")
	rootCmd.Flags().BoolVar(&reformatPhones, "reformat-phones", false, "Render 10-digit phones as (nnn) nnn-nnnn instead of bare digits")
	rootCmd.Flags().BoolVar(&skipGenerate, "skip-generate", false, "Clean an existing raw file instead of generating one")
	rootCmd.Flags().BoolVarP(&generateOnly, "generate-only", "g", false, "Only generate the raw dataset without cleaning it")
	rootCmd.Flags().BoolVarP(&assessOnly, "assess-only", "a", false, "Only assess the raw dataset without cleaning it")
	rootCmd.Flags().BoolVarP(&verify, "verify", "v", false, "Verify the cleaned table after the pipeline runs")

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
