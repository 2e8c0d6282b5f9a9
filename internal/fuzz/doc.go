// Package fuzztests houses Go fuzz harnesses for the line scanner: comment
// sanitizing, the per-file session and the whole analysis driver. Its goal
// is to guard against panics and broken positions on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через scan.Sanitize,
// scan.Session и driver.AnalyzeSource и проверять инварианты из testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
