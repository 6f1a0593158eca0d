package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediq-health/mediq/internal/api"
	"github.com/mediq-health/mediq/internal/database"
	"github.com/mediq-health/mediq/internal/session"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage research sessions",
}

var listStatus string

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List research sessions from the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := session.NewStore(newClient(), db)
		if err != nil {
			return err
		}
		if err := store.Fetch(context.Background()); err != nil {
			return err
		}

		sessions := store.Sessions()
		if listStatus != "" {
			var filtered []api.ResearchSession
			for _, s := range sessions {
				if string(s.Status) == listStatus {
					filtered = append(filtered, s)
				}
			}
			sessions = filtered
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions. Create one with: mediq sessions create")
			return nil
		}

		active := store.Active()
		for _, s := range sessions {
			marker := " "
			if active != nil && active.ID == s.ID {
				marker = "*"
			}
			fmt.Printf("  %s %s  [%s]  %s\n", marker, s.ID, s.Status, s.Title)
			if s.Purpose != "" {
				fmt.Printf("      %s\n", truncate(s.Purpose, 70))
			}
		}
		return nil
	},
}

var (
	createTitle       string
	createPurpose     string
	createDescription string
	createInstitution string
	createIRB         string
	createFields      []string
	createStart       string
	createEnd         string
)

var sessionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a research session and select it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if createTitle == "" || createPurpose == "" {
			return fmt.Errorf("--title and --purpose are required")
		}
		if len(createFields) == 0 {
			return fmt.Errorf("--fields is required (comma-separated field names)")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := session.NewStore(newClient(), db)
		if err != nil {
			return err
		}

		draft := api.SessionCreate{
			Title:           createTitle,
			Purpose:         createPurpose,
			RequestedFields: createFields,
		}
		if createDescription != "" {
			draft.Description = &createDescription
		}
		if createInstitution != "" {
			draft.Institution = &createInstitution
		}
		if createIRB != "" {
			draft.IRBApprovalNumber = &createIRB
		}
		if createStart != "" {
			draft.StartDate = &createStart
		}
		if createEnd != "" {
			draft.EndDate = &createEnd
		}

		created, err := store.Create(context.Background(), draft)
		if err != nil {
			return err
		}

		fmt.Printf("Created session %s: %s\n", created.ID, created.Title)
		fmt.Println("It is now the selected session for analyses.")
		return nil
	},
}

var sessionsUseCmd = &cobra.Command{
	Use:   "use [id]",
	Short: "Select a session as the context for analyses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := session.NewStore(newClient(), db)
		if err != nil {
			return err
		}
		if err := store.SetActiveByID(args[0]); err != nil {
			return err
		}

		fmt.Printf("Selected session %s\n", args[0])
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session's full details from the API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().GetSession(context.Background(), args[0])
		if err != nil {
			return err
		}
		printSession(s)
		return nil
	},
}

var (
	updateTitle       string
	updateDescription string
	updateStatus      string
	updateEnd         string
	updateFields      []string
)

var sessionsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a session's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch api.SessionUpdate
		if updateTitle != "" {
			patch.Title = &updateTitle
		}
		if updateDescription != "" {
			patch.Description = &updateDescription
		}
		if updateStatus != "" {
			status := api.SessionStatus(updateStatus)
			switch status {
			case api.StatusActive, api.StatusPaused, api.StatusCompleted, api.StatusArchived:
			default:
				return fmt.Errorf("invalid status %q (active, paused, completed, archived)", updateStatus)
			}
			patch.Status = &status
		}
		if updateEnd != "" {
			patch.EndDate = &updateEnd
		}
		if len(updateFields) > 0 {
			patch.RequestedFields = updateFields
		}

		updated, err := newClient().UpdateSession(context.Background(), args[0], patch)
		if err != nil {
			return err
		}

		// Keep the local cache in step when the session is already cached.
		if db, dbErr := openDB(); dbErr == nil {
			defer db.Close()
			refreshCachedSession(db, updated)
		}

		fmt.Printf("Updated session %s\n", updated.ID)
		printSession(updated)
		return nil
	},
}

func refreshCachedSession(db *database.DB, updated *api.ResearchSession) {
	cached, err := db.GetCachedSessions()
	if err != nil {
		return
	}
	for i := range cached {
		if cached[i].ID == updated.ID {
			cached[i] = *updated
			db.ReplaceCachedSessions(cached)
			return
		}
	}
}

func printSession(s *api.ResearchSession) {
	fmt.Printf("%s  [%s]\n", s.Title, s.Status)
	fmt.Printf("  ID: %s\n", s.ID)
	fmt.Printf("  Purpose: %s\n", s.Purpose)
	if s.Description != nil && *s.Description != "" {
		fmt.Printf("  Description: %s\n", *s.Description)
	}
	if s.Institution != nil && *s.Institution != "" {
		fmt.Printf("  Institution: %s\n", *s.Institution)
	}
	if s.IRBApprovalNumber != nil && *s.IRBApprovalNumber != "" {
		fmt.Printf("  IRB approval: %s\n", *s.IRBApprovalNumber)
	}
	fmt.Printf("  Fields: %s\n", strings.Join(s.RequestedFields, ", "))
	fmt.Printf("  Accesses: %d\n", s.DataAccessCount)
	fmt.Printf("  Created: %s  Updated: %s\n", s.CreatedAt, s.UpdatedAt)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	sessionsListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (active, paused, completed, archived)")

	sessionsCreateCmd.Flags().StringVar(&createTitle, "title", "", "Session title")
	sessionsCreateCmd.Flags().StringVar(&createPurpose, "purpose", "", "Research purpose")
	sessionsCreateCmd.Flags().StringVar(&createDescription, "description", "", "Description")
	sessionsCreateCmd.Flags().StringVar(&createInstitution, "institution", "", "Institution")
	sessionsCreateCmd.Flags().StringVar(&createIRB, "irb", "", "IRB approval number")
	sessionsCreateCmd.Flags().StringSliceVar(&createFields, "fields", nil, "Requested field names")
	sessionsCreateCmd.Flags().StringVar(&createStart, "start", "", "Start date (YYYY-MM-DD)")
	sessionsCreateCmd.Flags().StringVar(&createEnd, "end", "", "End date (YYYY-MM-DD)")

	sessionsUpdateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	sessionsUpdateCmd.Flags().StringVar(&updateDescription, "description", "", "New description")
	sessionsUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "New status")
	sessionsUpdateCmd.Flags().StringVar(&updateEnd, "end", "", "New end date")
	sessionsUpdateCmd.Flags().StringSliceVar(&updateFields, "fields", nil, "New requested field names")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsCreateCmd)
	sessionsCmd.AddCommand(sessionsUseCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsUpdateCmd)
	rootCmd.AddCommand(sessionsCmd)
}
