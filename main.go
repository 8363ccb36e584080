package main

import (
	"flag"
	"fmt"
	"log"

	"IrisExplorer/src/dataset"
)

// 生成 Iris 数据集CSV，分析程序在 src/ 下
func main() {
	out := flag.String("out", "iris_data.csv", "输出CSV路径")
	xlsxPath := flag.String("xlsx", "", "同时导出的xlsx路径，可选")
	sheet := flag.String("sheet", "iris", "xlsx工作表名")
	flag.Parse()

	if err := dataset.Generate(*out); err != nil {
		log.Fatal("生成数据集失败: ", err)
	}
	fmt.Printf("Iris dataset saved as '%s'\n", *out)

	if *xlsxPath != "" {
		if err := dataset.GenerateXLSX(*xlsxPath, *sheet); err != nil {
			log.Fatal("导出xlsx失败: ", err)
		}
		fmt.Printf("Iris dataset saved as '%s'\n", *xlsxPath)
	}
}
