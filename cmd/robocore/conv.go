package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/robocore/pkg/typeconv"
)

var intWidths = map[string]int{"int16": 16, "int32": 32, "int64": 64}

func newConvCmd() *cobra.Command {
	conv := &cobra.Command{
		Use:   "conv",
		Short: "Convert values to and from their wire encoding",
	}
	conv.AddCommand(newEncodeCmd(), newDecodeCmd(), newUnsignedCmd(), newTextCmd())
	return conv
}

func newEncodeCmd() *cobra.Command {
	var order string
	cmd := &cobra.Command{
		Use:   "encode int16|int32|int64 VALUE",
		Short: "Print the hex encoding of an integer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bo, err := typeconv.ParseByteOrder(order)
			if err != nil {
				return err
			}
			width, ok := intWidths[args[0]]
			if !ok {
				return fmt.Errorf("unknown type %q", args[0])
			}
			v, err := strconv.ParseInt(args[1], 0, width)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			var b []byte
			switch width {
			case 16:
				b = typeconv.Int16ToBytes(int16(v), bo)
			case 32:
				b = typeconv.Int32ToBytes(int32(v), bo)
			default:
				b = typeconv.Int64ToBytes(v, bo)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "order", "big", "byte order (big, little)")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var order string
	var offset int
	cmd := &cobra.Command{
		Use:   "decode int16|int32|int64|uint16 HEX",
		Short: "Decode an integer from hex bytes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bo, err := typeconv.ParseByteOrder(order)
			if err != nil {
				return err
			}
			b, err := parseHex(args[1])
			if err != nil {
				return err
			}

			var v int64
			switch args[0] {
			case "int16":
				var x int16
				x, err = typeconv.BytesToInt16At(b, offset, bo)
				v = int64(x)
			case "int32":
				var x int32
				x, err = typeconv.BytesToInt32At(b, offset, bo)
				v = int64(x)
			case "int64":
				v, err = typeconv.BytesToInt64At(b, offset, bo)
			case "uint16":
				var x int
				x, err = typeconv.BytesToUnsignedShortAt(b, offset, bo)
				v = int64(x)
			default:
				return fmt.Errorf("unknown type %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "order", "big", "byte order (big, little)")
	cmd.Flags().IntVar(&offset, "offset", 0, "byte offset of the value")
	return cmd
}

func newUnsignedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsigned byte|short|int VALUE",
		Short: "Reinterpret a signed value as unsigned",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			widths := map[string]int{"byte": 8, "short": 16, "int": 32}
			width, ok := widths[args[0]]
			if !ok {
				return fmt.Errorf("unknown type %q", args[0])
			}
			v, err := strconv.ParseInt(args[1], 0, width)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			switch width {
			case 8:
				fmt.Fprintln(out, typeconv.UnsignedByteToInt(int8(v)))
			case 16:
				fmt.Fprintln(out, typeconv.UnsignedShortToInt(int16(v)))
			default:
				fmt.Fprintln(out, typeconv.UnsignedIntToInt64(int32(v)))
			}
			return nil
		},
	}
}

func newTextCmd() *cobra.Command {
	var fromHex, utf16 bool
	var order string
	cmd := &cobra.Command{
		Use:   "text STRING",
		Short: "Encode text as UTF-8 hex, or decode hex with --from-hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !fromHex {
				b, err := typeconv.StringToUTF8(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, hex.EncodeToString(b))
				return nil
			}

			b, err := parseHex(args[0])
			if err != nil {
				return err
			}
			if utf16 {
				bo, err := typeconv.ParseByteOrder(order)
				if err != nil {
					return err
				}
				if b, err = typeconv.UTF16ToUTF8(b, bo); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, typeconv.UTF8ToString(b))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromHex, "from-hex", false, "decode hex bytes to text")
	cmd.Flags().BoolVar(&utf16, "utf16", false, "hex bytes are UTF-16 (with --from-hex)")
	cmd.Flags().StringVar(&order, "order", "big", "UTF-16 byte order (big, little)")
	return cmd
}

// parseHex accepts "0x" prefixes and spaces between bytes.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.ReplaceAll(s, " ", "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return b, nil
}
