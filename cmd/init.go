package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/knockoff/internal/config"
	"github.com/Rana718/knockoff/template"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new knockoff project",
	Long:  `Write a knockoff config, a starter blueprint, an example schema and a .env entry for DATABASE_URL.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.PostgreSQL
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(".", dbType)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
}

func initializeProject(root string, dbType template.DatabaseType) error {
	tmpl := template.NewProjectTemplate(dbType)

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := []struct {
		path    string
		content string
	}{
		{config.FileName, tmpl.GetConfig()},
		{"knockoff.yaml", tmpl.GetBlueprint()},
		{"db/schema/users.sql", tmpl.GetSchema()},
	}

	var created, skipped []string
	for _, f := range files {
		path := filepath.Join(root, f.path)
		if _, err := os.Stat(path); err == nil {
			skipped = append(skipped, f.path)
			continue
		}
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}

	if err := handleEnvFile(filepath.Join(root, ".env"), tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	color.Green("✅ Successfully initialized knockoff project with %s database support", dbType)
	fmt.Println()
	fmt.Println("📝 Files created:")
	for _, c := range created {
		fmt.Printf("   %s\n", c)
	}
	for _, s := range skipped {
		fmt.Printf("ℹ️  Skipped %s (already exists)\n", s)
	}

	if os.Getenv("DATABASE_URL") != "" {
		fmt.Println()
		fmt.Println("ℹ️  Using existing DATABASE_URL from environment")
	}

	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   apply db/schema/users.sql to your database\n")
	fmt.Printf("   knockoff plan                  # Check the build order\n")
	fmt.Printf("   knockoff run --dry-run         # Preview generated rows\n")
	fmt.Printf("   knockoff run                   # Insert them\n")

	return nil
}

// handleEnvFile writes the default .env, or appends DATABASE_URL to an
// existing one that lacks it.
func handleEnvFile(envPath, defaultEnvContent string) error {
	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}

	existingStr += "\n# Added by knockoff\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}
