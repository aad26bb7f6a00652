package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krazyTry/gyro-go/eclp"
	fp "github.com/krazyTry/gyro-go/fixedpoint"
	"github.com/krazyTry/gyro-go/internal/config"
	"github.com/krazyTry/gyro-go/pool"
	"github.com/krazyTry/gyro-go/shared"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type session struct {
	cfg    config.Config
	logger *zap.Logger
	def    pool.Definition
	pool   pool.Pool
}

func setup(cmd *cobra.Command) (*session, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfg.PoolFile)
	if err != nil {
		return nil, fmt.Errorf("read pool definition: %w", err)
	}
	def, err := pool.ParseDefinition(data)
	if err != nil {
		return nil, err
	}

	opts := []pool.Option{pool.WithLogger(logger)}
	if path, _ := cmd.Flags().GetString("derived"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read derived params: %w", err)
		}
		var d eclp.DerivedParams
		if err := d.UnmarshalBinary(raw); err != nil {
			return nil, err
		}
		opts = append(opts, pool.WithDerivedParams(d))
	}

	p, err := pool.New(def.Params, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("pool loaded",
		zap.String("file", cfg.PoolFile),
		zap.String("kind", def.Params.Kind.String()),
		zap.Int("balances", len(def.Balances)),
	)
	return &session{cfg: cfg, logger: logger, def: def, pool: p}, nil
}

func (s *session) requireBalances() error {
	if len(s.def.Balances) == 0 {
		return fmt.Errorf("%s has no balances", s.cfg.PoolFile)
	}
	return nil
}

func (s *session) write(w io.Writer, v any) error {
	var (
		out []byte
		err error
	)
	if s.cfg.Pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

type invariantOutput struct {
	Kind         string `json:"kind"`
	Invariant    string `json:"invariant"`
	InvariantRaw string `json:"invariantRaw"`
	SpotPrice    string `json:"spotPrice0in1"`
}

func runInvariant(cmd *cobra.Command, _ []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	if err := s.requireBalances(); err != nil {
		return err
	}
	l, err := s.pool.Invariant(s.def.Balances)
	if err != nil {
		return err
	}
	price, err := s.pool.SpotPrice(s.def.Balances, 0, 1)
	if err != nil {
		return err
	}
	return s.write(cmd.OutOrStdout(), invariantOutput{
		Kind:         s.pool.Kind().String(),
		Invariant:    pool.FormatAmount(l),
		InvariantRaw: l.String(),
		SpotPrice:    pool.FormatAmount(price),
	})
}

type swapOutput struct {
	TokenIn   int    `json:"tokenIn"`
	TokenOut  int    `json:"tokenOut"`
	AmountIn  string `json:"amountIn"`
	AmountOut string `json:"amountOut"`
	Fee       string `json:"fee"`
}

func runSwap(cmd *cobra.Command, _ []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	if err := s.requireBalances(); err != nil {
		return err
	}
	in, _ := cmd.Flags().GetInt("in")
	out, _ := cmd.Flags().GetInt("out")
	amountStr, _ := cmd.Flags().GetString("amount")
	givenOut, _ := cmd.Flags().GetBool("given-out")
	if amountStr == "" {
		return fmt.Errorf("amount is required")
	}
	amount, err := fp.DecimalFromString[fp.P18](amountStr)
	if err != nil {
		return err
	}

	req := pool.SwapRequest{Kind: shared.SwapKindGivenIn, TokenIn: in, TokenOut: out, Amount: amount.Raw()}
	if givenOut {
		req.Kind = shared.SwapKindGivenOut
	}
	res, err := s.pool.Swap(s.def.Balances, req)
	if err != nil {
		return err
	}
	return s.write(cmd.OutOrStdout(), swapOutput{
		TokenIn:   in,
		TokenOut:  out,
		AmountIn:  pool.FormatAmount(res.AmountIn),
		AmountOut: pool.FormatAmount(res.AmountOut),
		Fee:       pool.FormatAmount(res.Fee),
	})
}

type deriveOutput struct {
	TauAlpha [2]string `json:"tauAlpha"`
	TauBeta  [2]string `json:"tauBeta"`
	U        string    `json:"u"`
	V        string    `json:"v"`
	W        string    `json:"w"`
	Z        string    `json:"z"`
	DSq      string    `json:"dSq"`
	Encoded  string    `json:"encoded"`
}

func runDerive(cmd *cobra.Command, _ []string) error {
	s, err := setup(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	d, ok := pool.DerivedParams(s.pool)
	if !ok {
		return fmt.Errorf("derive: %s pools have no derived params", s.pool.Kind())
	}
	data, err := d.MarshalBinary()
	if err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("write"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write derived params: %w", err)
		}
		s.logger.Info("derived params written", zap.String("path", path), zap.Int("bytes", len(data)))
	}
	return s.write(cmd.OutOrStdout(), deriveOutput{
		TauAlpha: [2]string{d.TauAlpha.X.String(), d.TauAlpha.Y.String()},
		TauBeta:  [2]string{d.TauBeta.X.String(), d.TauBeta.Y.String()},
		U:        d.U.String(),
		V:        d.V.String(),
		W:        d.W.String(),
		Z:        d.Z.String(),
		DSq:      d.DSq.String(),
		Encoded:  hex.EncodeToString(data),
	})
}
