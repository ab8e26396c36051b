package cli

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	borsh "github.com/malbeclabs/everlend/sdk/borsh-schema/go"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
)

// schemaKinds maps the schemas that describe whole accounts to their kind, so
// their owner can be checked before decoding.
var schemaKinds = map[string]rewards.AccountKind{
	rewards.SchemaRewardPool:   rewards.AccountRewardPool,
	rewards.SchemaMining:       rewards.AccountMining,
	rewards.SchemaPool:         rewards.AccountPool,
	rewards.SchemaMint:         rewards.AccountMint,
	rewards.SchemaTokenAccount: rewards.AccountTokenAccount,
}

type DecodeCmd struct{}

func NewDecodeCmd() *DecodeCmd {
	return &DecodeCmd{}
}

func (c *DecodeCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "decode <schema>",
		Short:     "Decode an account or raw bytes against a schema",
		Long:      "Decode an account or raw bytes against one of: " + strings.Join(rewards.Schemas.Names(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: rewards.Schemas.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := args[0]
			if _, ok := rewards.Schemas.Schema(schema); !ok {
				return fmt.Errorf("unknown schema %q, must be one of: %s", schema, strings.Join(rewards.Schemas.Names(), ", "))
			}

			var (
				rec borsh.Record
				err error
			)
			if cmd.Flags().Changed("address") {
				rec, err = c.decodeAccount(cmd, schema)
			} else {
				rec, err = c.decodeData(cmd, schema)
			}
			if err != nil {
				return err
			}
			renderRecord(cmd.OutOrStdout(), rewards.Schemas, rec)
			return nil
		},
	}
	cmd.Flags().String("address", "", "Account to fetch and decode")
	cmd.Flags().String("data", "", "Raw bytes to decode")
	cmd.Flags().String("encoding", "base64", "Encoding of --data (base64, base58, hex)")
	cmd.Flags().Bool("strict", false, "Reject trailing bytes after the record in --data")
	cmd.Flags().Bool("skip-owner-check", false, "Decode an account whatever program owns it")
	cmd.MarkFlagsMutuallyExclusive("address", "data")
	cmd.MarkFlagsOneRequired("address", "data")
	return cmd
}

func (c *DecodeCmd) decodeAccount(cmd *cobra.Command, schema string) (borsh.Record, error) {
	addr, err := publicKeyFlag(cmd, "address")
	if err != nil {
		return borsh.Record{}, err
	}
	skipOwnerCheck, err := cmd.Flags().GetBool("skip-owner-check")
	if err != nil {
		return borsh.Record{}, fmt.Errorf("failed to get skip-owner-check flag: %w", err)
	}

	env, err := newEnvironment(cmd)
	if err != nil {
		return borsh.Record{}, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := env.rpc.GetAccountInfo(ctx, addr)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return borsh.Record{}, fmt.Errorf("%w: %s", rewards.ErrAccountNotFound, addr)
		}
		return borsh.Record{}, fmt.Errorf("failed to get account %s: %w", addr, err)
	}
	info := res.Value

	var owner solana.PublicKey
	kind, isAccount := schemaKinds[schema]
	switch {
	case skipOwnerCheck || !isAccount:
		if info != nil {
			owner = info.Owner
		}
	default:
		if owner, err = env.net.OwnerProgramFor(kind); err != nil {
			return borsh.Record{}, err
		}
	}

	view, err := rewards.Bind(rewards.Schemas, addr, info, owner, schema)
	if err != nil {
		return borsh.Record{}, err
	}
	env.log.Debug("Decoded account", "address", view.Address, "owner", view.Owner, "lamports", view.Lamports, "schema", schema)
	return view.Record, nil
}

func (c *DecodeCmd) decodeData(cmd *cobra.Command, schema string) (borsh.Record, error) {
	raw, err := cmd.Flags().GetString("data")
	if err != nil {
		return borsh.Record{}, fmt.Errorf("failed to get data flag: %w", err)
	}
	encoding, err := cmd.Flags().GetString("encoding")
	if err != nil {
		return borsh.Record{}, fmt.Errorf("failed to get encoding flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return borsh.Record{}, fmt.Errorf("failed to get strict flag: %w", err)
	}

	data, err := decodeBytes(raw, encoding)
	if err != nil {
		return borsh.Record{}, err
	}
	if strict {
		return rewards.Schemas.Decode(schema, data)
	}
	return rewards.Schemas.DecodeUnchecked(schema, data)
}

func decodeBytes(s, encoding string) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch encoding {
	case "base64":
		b, err = base64.StdEncoding.DecodeString(s)
	case "base58":
		b, err = base58.Decode(s)
	case "hex":
		b, err = hex.DecodeString(strings.TrimPrefix(s, "0x"))
	default:
		return nil, fmt.Errorf("invalid encoding %q, must be one of: base64, base58, hex", encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s data: %w", encoding, err)
	}
	return b, nil
}

// renderRecord prints one row per scalar, walking structs, arrays and
// sequences depth first with dotted paths.
func renderRecord(w io.Writer, registry *borsh.Registry, rec borsh.Record) {
	table := newTable(w, []string{"Field", "Type", "Value"})
	for _, row := range flattenRecord(registry, rec, "") {
		table.Append(row)
	}
	table.Render()
}

func flattenRecord(registry *borsh.Registry, rec borsh.Record, prefix string) [][]string {
	s, ok := registry.Schema(rec.Schema())
	if !ok {
		return [][]string{{prefix, rec.Schema(), "unknown schema"}}
	}
	var rows [][]string
	for _, f := range s.Fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		v, _ := rec.Get(f.Name)
		rows = append(rows, flattenValue(registry, path, f.Type, v)...)
	}
	return rows
}

func flattenValue(registry *borsh.Registry, path string, t borsh.FieldType, v any) [][]string {
	switch val := v.(type) {
	case borsh.Record:
		return flattenRecord(registry, val, path)
	case []borsh.Record:
		rows := [][]string{{path, t.String(), fmt.Sprintf("%d entries", len(val))}}
		for i, r := range val {
			rows = append(rows, flattenRecord(registry, r, fmt.Sprintf("%s[%d]", path, i))...)
		}
		return rows
	case []any:
		var rows [][]string
		for i, e := range val {
			rows = append(rows, flattenValue(registry, fmt.Sprintf("%s[%d]", path, i), *t.Elem, e)...)
		}
		return rows
	case []byte:
		return [][]string{{path, t.String(), hex.EncodeToString(val)}}
	case solana.PublicKey:
		return [][]string{{path, t.String(), val.String()}}
	case *big.Int:
		return [][]string{{path, t.String(), val.String()}}
	}
	return [][]string{{path, t.String(), fmt.Sprint(v)}}
}
