// libctl 图书馆管理命令行工具
//
//	libctl create-admin --email admin@example.com
//	libctl import-books books.json
//	libctl expire-reservations
//	libctl recount-likes <comment_id>
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
