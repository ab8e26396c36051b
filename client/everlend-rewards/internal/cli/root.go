package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/lmittmann/tint"
	"github.com/malbeclabs/everlend/config"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// BuildInfo is set by main from LDFLAGS.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func Run(info BuildInfo) ExitCode {
	if err := NewRootCmd(info).Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

func NewRootCmd(info BuildInfo) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "everlend-rewards",
		Short:   "Read Everlend reward and pool accounts.",
		Version: fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.Date),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")

	var env string
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", config.EnvMainnetBeta, "The network environment to query (mainnet-beta, devnet)")

	var configPath string
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML file overriding the network configuration")

	var rpcURL string
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", "", "Solana RPC URL, overrides the environment and config file")

	rootCmd.AddCommand(
		NewRewardsCmd().Command(),
		NewCompoundCmd().Command(),
		NewPDACmd().Command(),
		NewDecodeCmd().Command(),
		NewWatchCmd(info).Command(),
	)

	return rootCmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// environment is what a command needs to talk to one network.
type environment struct {
	log    *slog.Logger
	net    *config.NetworkConfig
	rpc    *solanarpc.Client
	client *rewards.Client
}

// networkFromFlags resolves the network configuration from the root flags
// without dialing anything.
func networkFromFlags(cmd *cobra.Command) (*config.NetworkConfig, error) {
	flags := cmd.Root().PersistentFlags()
	env, err := flags.GetString("env")
	if err != nil {
		return nil, fmt.Errorf("failed to get env flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	rpcURL, err := flags.GetString("rpc-url")
	if err != nil {
		return nil, fmt.Errorf("failed to get rpc-url flag: %w", err)
	}
	net, err := config.ResolveNetworkConfig(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network config: %w", err)
	}
	if rpcURL != "" {
		net.SolanaRPCURL = rpcURL
	}
	return net, nil
}

func newEnvironment(cmd *cobra.Command) (*environment, error) {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	net, err := networkFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	log := newLogger(verbose)
	log.Debug("Resolved network config", "env", net.Moniker, "rpcURL", net.SolanaRPCURL, "rewardProgram", net.RewardProgramID, "rootConfig", net.RewardsRootConfig)

	rpcClient := solanarpc.New(net.SolanaRPCURL)
	return &environment{
		log:    log,
		net:    net,
		rpc:    rpcClient,
		client: rewards.New(rpcClient, net),
	}, nil
}

func publicKeyFlag(cmd *cobra.Command, name string) (solana.PublicKey, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return pk, nil
}

func publicKeysFlag(cmd *cobra.Command, name string) ([]solana.PublicKey, error) {
	values, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	out := make([]solana.PublicKey, 0, len(values))
	for _, s := range values {
		pk, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, s, err)
		}
		out = append(out, pk)
	}
	return out, nil
}
