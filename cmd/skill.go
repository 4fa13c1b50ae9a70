package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterysheet/internal/client"
	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/model"
	"github.com/abhisek/masterysheet/internal/sheet"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect and edit character skills through the backend",
}

var skillListCmd = &cobra.Command{
	Use:   "list <character-id>",
	Short: "List a character's skills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		characterID, err := parseID(args[0])
		if err != nil {
			return err
		}
		skills, err := newClient().ListSkills(cmd.Context(), characterID)
		if err != nil {
			return err
		}

		// Header.
		fmt.Printf("%-6s  %-40s  %s\n", "ID", "Name", "Mastery")
		fmt.Println(strings.Repeat("─", 60))

		for _, s := range skills {
			name := s.Name
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			fmt.Printf("%-6d  %-40s  %s\n", s.ID, name, s.Mastery)
		}

		fmt.Printf("\n%d skills\n", len(skills))
		return nil
	},
}

var skillAddCmd = &cobra.Command{
	Use:   "add <character-id> <name>",
	Short: "Add a skill to a character",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		characterID, err := parseID(args[0])
		if err != nil {
			return err
		}
		level, err := levelFlag(cmd)
		if err != nil {
			return err
		}
		skill, err := newClient().CreateSkill(cmd.Context(), model.CharacterSkillCreate{
			CharacterID: characterID,
			Name:        args[1],
			Mastery:     level,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created skill %d: %s (%s)\n", skill.ID, skill.Name, skill.Mastery)
		return nil
	},
}

var skillSetCmd = &cobra.Command{
	Use:   "set <skill-id> <mastery>",
	Short: "Set the mastery level of a skill",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		level, err := mastery.Parse(args[1])
		if err != nil {
			return fmt.Errorf("%w (valid: %s)", err, levelNames())
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()
		res, err := newClient().UpdateMastery(ctx, sheet.IDFromUint(id), level)
		if err != nil {
			return err
		}
		if res.Error != "" {
			return fmt.Errorf("rejected: %s", res.Error)
		}
		fmt.Printf("Skill %d is now %s\n", id, level)
		return nil
	},
}

var skillHistoryCmd = &cobra.Command{
	Use:   "history <skill-id>",
	Short: "Show the mastery change log of a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		changes, err := newClient().History(cmd.Context(), sheet.IDFromUint(id))
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			fmt.Println("No mastery changes recorded.")
			return nil
		}
		for _, c := range changes {
			fmt.Printf("#%-5d  %s  %-9s → %s\n",
				c.Sequence, c.Timestamp.Local().Format("2006-01-02 15:04:05"), c.From, c.To)
		}
		return nil
	},
}

func init() {
	skillAddCmd.Flags().String("mastery", string(mastery.None), "Initial mastery level")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillSetCmd)
	skillCmd.AddCommand(skillHistoryCmd)
}

func newClient() *client.Client {
	return client.New(cfg.ServerURL)
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func levelFlag(cmd *cobra.Command) (mastery.Level, error) {
	v, _ := cmd.Flags().GetString("mastery")
	level, err := mastery.Parse(v)
	if err != nil {
		return "", fmt.Errorf("%w (valid: %s)", err, levelNames())
	}
	return level, nil
}

func levelNames() string {
	names := make([]string, 0, len(mastery.Levels()))
	for _, l := range mastery.Levels() {
		names = append(names, l.String())
	}
	return strings.Join(names, ", ")
}
