// Package input implements one concrete problem-input format over
// model.Builder (spec.md §6): a flat line-oriented file, read with
// bufio.Scanner the same way the teacher's LoadInstance parses its
// set-cover instance format (parseFirstLine/parseSecondLine/...).
//
// Format (one problem per file):
//
//	sense N M                     # "min"|"max", N vars, M constraints
//	name type lower upper         # type in {real,binary,integer}  (N lines)
//	obj c0 c1 ... cN-1             # linear objective coefficients
//	con name lhs rhs c0 ... cN-1   # linear constraint row           (M lines)
package input

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"shotgo/internal/errs"
	"shotgo/internal/model"
)

// ReadFlatFile parses filename into a finalized model.Problem.
func ReadFlatFile(filename string) (*model.Problem, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errs.Wrap(errs.ModelError, "opening problem file", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	b := model.NewBuilder(filename)

	numVars, numCons, sense, err := parseHeader(scanner)
	if err != nil {
		return nil, errs.Wrap(errs.ModelError, "parsing header", err)
	}

	for i := 0; i < numVars; i++ {
		if err := parseVariableLine(scanner, b); err != nil {
			return nil, errs.Wrap(errs.ModelError, fmt.Sprintf("parsing variable %d", i), err)
		}
	}

	objCoeffs, err := parseObjectiveLine(scanner, numVars)
	if err != nil {
		return nil, errs.Wrap(errs.ModelError, "parsing objective", err)
	}
	obj := model.NewObjective(sense)
	for i, c := range objCoeffs {
		if c != 0 {
			obj.Body.Linear = append(obj.Body.Linear, model.LinearTerm{Coefficient: c, Var: i})
		}
	}
	b.SetObjective(obj)

	for i := 0; i < numCons; i++ {
		if err := parseConstraintLine(scanner, b, numVars); err != nil {
			return nil, errs.Wrap(errs.ModelError, fmt.Sprintf("parsing constraint %d", i), err)
		}
	}

	p, err := b.Finalize()
	if err != nil {
		return nil, errs.Wrap(errs.ModelError, "finalizing problem", err)
	}
	return p, nil
}

func parseHeader(scanner *bufio.Scanner) (numVars, numCons int, sense model.Sense, err error) {
	if !scanner.Scan() {
		return 0, 0, 0, fmt.Errorf("missing header line")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("header must have 3 fields, got %d", len(fields))
	}
	switch strings.ToLower(fields[0]) {
	case "min":
		sense = model.Minimize
	case "max":
		sense = model.Maximize
	default:
		return 0, 0, 0, fmt.Errorf("unknown sense %q", fields[0])
	}
	numVars, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parsing variable count: %w", err)
	}
	numCons, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parsing constraint count: %w", err)
	}
	return numVars, numCons, sense, nil
}

func parseVariableLine(scanner *bufio.Scanner, b *model.Builder) error {
	if !scanner.Scan() {
		return fmt.Errorf("missing variable line")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) != 4 {
		return fmt.Errorf("variable line must have 4 fields, got %d", len(fields))
	}
	typ, err := parseVarType(fields[1])
	if err != nil {
		return err
	}
	lower, err := parseBound(fields[2])
	if err != nil {
		return fmt.Errorf("parsing lower bound: %w", err)
	}
	upper, err := parseBound(fields[3])
	if err != nil {
		return fmt.Errorf("parsing upper bound: %w", err)
	}
	b.AddVariable(fields[0], typ, lower, upper)
	return nil
}

func parseVarType(s string) (model.VariableType, error) {
	switch strings.ToLower(s) {
	case "real":
		return model.Real, nil
	case "binary":
		return model.Binary, nil
	case "integer":
		return model.Integer, nil
	default:
		return 0, fmt.Errorf("unknown variable type %q", s)
	}
}

func parseBound(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	default:
		return strconv.ParseFloat(s, 64)
	}
}

func parseObjectiveLine(scanner *bufio.Scanner, numVars int) ([]float64, error) {
	if !scanner.Scan() {
		return nil, fmt.Errorf("missing objective line")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 || strings.ToLower(fields[0]) != "obj" {
		return nil, fmt.Errorf(`objective line must start with "obj"`)
	}
	return parseFloats(fields[1:], numVars, "objective")
}

func parseConstraintLine(scanner *bufio.Scanner, b *model.Builder, numVars int) error {
	if !scanner.Scan() {
		return fmt.Errorf("missing constraint line")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 || strings.ToLower(fields[0]) != "con" {
		return fmt.Errorf(`constraint line must start with "con"`)
	}
	if len(fields) < 4 {
		return fmt.Errorf("constraint line too short")
	}
	name := fields[1]
	lhs, err := parseBound(fields[2])
	if err != nil {
		return fmt.Errorf("parsing LHS: %w", err)
	}
	rhs, err := parseBound(fields[3])
	if err != nil {
		return fmt.Errorf("parsing RHS: %w", err)
	}
	coeffs, err := parseFloats(fields[4:], numVars, "constraint "+name)
	if err != nil {
		return err
	}
	c := b.AddConstraint(name, lhs, rhs)
	for i, coeff := range coeffs {
		if coeff != 0 {
			c.Linear = append(c.Linear, model.LinearTerm{Coefficient: coeff, Var: i})
		}
	}
	return nil
}

func parseFloats(fields []string, expect int, where string) ([]float64, error) {
	if len(fields) != expect {
		return nil, fmt.Errorf("%s: expected %d coefficients, got %d", where, expect, len(fields))
	}
	out := make([]float64, expect)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: parsing coefficient %d: %w", where, i, err)
		}
		out[i] = v
	}
	return out, nil
}
