package main

import (
	"context"
	"fmt"
	"time"

	"github.com/itsatony/go-hsml"
	"github.com/spf13/cobra"
)

// storeFlags select the backend; empty values fall back to the project config.
type storeFlags struct {
	driver string
	dsn    string
}

func (a *app) storeCommand() *cobra.Command {
	flags := &storeFlags{}
	cmd := &cobra.Command{
		Use:   CmdNameStore,
		Short: HelpStoreShort,
	}
	cmd.PersistentFlags().StringVar(&flags.driver, FlagDriver, "", HelpFlagDriver)
	cmd.PersistentFlags().StringVar(&flags.dsn, FlagDSN, "", HelpFlagDSN)

	cmd.AddCommand(a.storeSaveCommand(flags))
	cmd.AddCommand(a.storeCompileCommand(flags))
	cmd.AddCommand(a.storeListCommand(flags))
	return cmd
}

// storageConfig applies the flags over the project config.
func (a *app) storageConfig(flags *storeFlags) hsml.StorageConfig {
	cfg := a.config.Storage
	if flags.driver != "" {
		cfg.Driver = flags.driver
	}
	if flags.dsn != "" {
		cfg.DSN = flags.dsn
	}
	return cfg
}

func (a *app) openStorage(flags *storeFlags) (hsml.DocumentStorage, error) {
	cfg := a.storageConfig(flags)
	storage, err := hsml.OpenStorage(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, newExitError(ExitCodeError, ErrMsgStoreOpenFailed, err)
	}
	return storage, nil
}

func (a *app) storeSaveCommand(flags *storeFlags) *cobra.Command {
	var (
		tags      []string
		createdBy string
	)
	cmd := &cobra.Command{
		Use:   CmdNameSave + " <name> <file>",
		Short: HelpSaveShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStoreSave(cmd.Context(), flags, args[0], args[1], tags, createdBy)
		},
	}
	cmd.Flags().StringSliceVar(&tags, FlagTag, nil, HelpFlagTag)
	cmd.Flags().StringVar(&createdBy, FlagCreatedBy, "", HelpFlagCreatedBy)
	return cmd
}

// runStoreSave parses the source before saving so only valid documents
// enter the store.
func (a *app) runStoreSave(ctx context.Context, flags *storeFlags, name, path string, tags []string, createdBy string) error {
	source, err := a.readInput(path)
	if err != nil {
		return err
	}
	engine, err := a.engine()
	if err != nil {
		return err
	}
	if _, err := engine.Parse(string(source)); err != nil {
		reportFailure(a.stderr, displayName(path), err)
		return reportedError(err)
	}

	storage, err := a.openStorage(flags)
	if err != nil {
		return err
	}
	defer storage.Close()

	doc := &hsml.StoredDocument{
		Name:      name,
		Source:    string(source),
		Tags:      tags,
		CreatedBy: createdBy,
	}
	if err := storage.Save(ctx, doc); err != nil {
		return classify(ErrMsgStoreSaveFailed, err)
	}
	fmt.Fprintf(a.stdout, FmtSaved, doc.Name, doc.Version, doc.ID)
	if a.storageConfig(flags).Driver == hsml.StorageDriverMemory {
		fmt.Fprintf(a.stderr, FmtWarning, CLIName, WarnMsgMemoryStore)
	}
	return nil
}

func (a *app) storeCompileCommand(flags *storeFlags) *cobra.Command {
	var (
		version int
		output  string
	)
	cmd := &cobra.Command{
		Use:   CmdNameCompile + " <name>",
		Short: HelpStoreCompile,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStoreCompile(cmd.Context(), flags, args[0], version, output)
		},
	}
	cmd.Flags().IntVar(&version, FlagVersion, 0, HelpFlagVersion)
	cmd.Flags().StringVarP(&output, FlagOutput, FlagOutputShort, OutputStdout, HelpFlagOutput)
	return cmd
}

func (a *app) runStoreCompile(ctx context.Context, flags *storeFlags, name string, version int, output string) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}
	storage, err := a.openStorage(flags)
	if err != nil {
		return err
	}
	defer storage.Close()

	var html string
	if version == 0 {
		html, err = engine.CompileStored(ctx, storage, name)
	} else {
		var doc *hsml.StoredDocument
		doc, err = storage.GetVersion(ctx, name, version)
		if err != nil {
			return classify(ErrMsgStoreLoadFailed, err)
		}
		html, err = engine.CompileString(ctx, doc.Source)
	}
	if err != nil {
		if hsml.IsParseFailure(err) {
			reportFailure(a.stderr, name, err)
			return reportedError(err)
		}
		return classify(ErrMsgStoreLoadFailed, err)
	}
	return a.writeOutput(output, []byte(html))
}

func (a *app) storeListCommand(flags *storeFlags) *cobra.Command {
	var (
		prefix string
		tags   []string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   CmdNameList,
		Short: HelpListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := &hsml.DocumentQuery{
				NamePrefix:         prefix,
				Tags:               tags,
				IncludeAllVersions: all,
			}
			return a.runStoreList(cmd.Context(), flags, query)
		},
	}
	cmd.Flags().StringVar(&prefix, FlagPrefix, "", HelpFlagPrefix)
	cmd.Flags().StringSliceVar(&tags, FlagTag, nil, HelpFlagTag)
	cmd.Flags().BoolVar(&all, FlagAll, false, HelpFlagAll)
	return cmd
}

func (a *app) runStoreList(ctx context.Context, flags *storeFlags, query *hsml.DocumentQuery) error {
	storage, err := a.openStorage(flags)
	if err != nil {
		return err
	}
	defer storage.Close()

	docs, err := storage.List(ctx, query)
	if err != nil {
		return classify(ErrMsgStoreListFailed, err)
	}
	for _, doc := range docs {
		fmt.Fprintf(a.stdout, FmtListRow, doc.Name, doc.Version, doc.ID, doc.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}
