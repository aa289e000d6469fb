package cli

import (
	"fmt"

	"brewhub/internal/bootstrap"
	"brewhub/internal/seed"

	"github.com/spf13/cobra"
)

// SeedOptions holds the flags of the seed command.
type SeedOptions struct {
	Users      int
	Posts      int
	Clean      bool
	SkipBcrypt bool
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with built-in recipes and fake social data",
		Long: `Upserts the built-in recipes, then creates fake users with coffee bags,
posts and a follow mesh. All generated users share the password "password123".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := connect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			result, err := seed.Seed(ctx, db, seed.Options{
				NumUsers:    opts.Users,
				NumPosts:    opts.Posts,
				ShouldClean: opts.Clean,
				SkipBcrypt:  opts.SkipBcrypt,
			})
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			if err := bootstrap.SeedBuiltIns(ctx, db); err != nil {
				return err
			}

			fmt.Fprintf(out, "seeded users=%d bags=%d posts=%d follows=%d\n",
				result.Users, result.Bags, result.Posts, result.Follows)
			if rootOpts.Verbose {
				fmt.Fprintln(out, "all generated users have the password: password123")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", 20, "number of users to create")
	cmd.Flags().IntVar(&opts.Posts, "posts", 60, "number of posts to create")
	cmd.Flags().BoolVar(&opts.Clean, "clean", true, "clear social data before seeding")
	cmd.Flags().BoolVar(&opts.SkipBcrypt, "skip-bcrypt", false, "store a placeholder password hash")

	return cmd
}
