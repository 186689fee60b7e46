package main

import (
	"fmt"
	"os"
	"strings"
)

func typeName(i int) string {
	return string(rune('A' + i))
}

func generatePipe(n int) string {
	var sb strings.Builder

	typeParams := []string{}
	for i := 0; i <= n; i++ {
		typeParams = append(typeParams, typeName(i))
	}

	params := []string{fmt.Sprintf("v %s", typeName(0))}
	for i := 1; i <= n; i++ {
		params = append(params, fmt.Sprintf("f%d func(%s) %s", i, typeName(i-1), typeName(i)))
	}

	call := "v"
	for i := 1; i <= n; i++ {
		call = fmt.Sprintf("f%d(%s)", i, call)
	}

	sb.WriteString(fmt.Sprintf("// Pipe%d applies %d functions left to right.\n", n, n))
	sb.WriteString(fmt.Sprintf("func Pipe%d[%s any](%s) %s {\n", n, strings.Join(typeParams, ", "), strings.Join(params, ", "), typeName(n)))
	sb.WriteString(fmt.Sprintf("\treturn %s\n", call))
	sb.WriteString("}\n\n")

	return sb.String()
}

func main() {
	var output strings.Builder

	for i := 1; i <= 8; i++ {
		output.WriteString(generatePipe(i))
	}

	fmt.Print(output.String())

	if len(os.Args) > 1 && os.Args[1] == "-w" {
		file, err := os.OpenFile("pipe_generated.go", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			panic(err)
		}
		defer file.Close()

		file.WriteString("// Code generated by codegen/main.go; DO NOT EDIT.\n\n")
		file.WriteString("package fp\n\n")
		file.WriteString("//go:generate go run codegen/main.go -w\n\n")
		file.WriteString(output.String())
		fmt.Println("Generated pipe_generated.go")
	}
}
