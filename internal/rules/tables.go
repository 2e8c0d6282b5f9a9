package rules

// NDK <clib/compiler-specific.h> words that should be written with the
// universal macros instead.
var ndkReservedWords = set("__saveds", "__save_ds", "__stkargs", "__amigainterrupt")

// universalReplacements maps compiler-specific keywords to NDK macros.
// An empty value means there is no universal equivalent.
var universalReplacements = map[string]string{
	"__saveds":         "__SAVE_DS__",
	"__save_ds":        "__SAVE_DS__",
	"__asm":            "__ASM__",
	"__reg":            "__REG__",
	"__stdargs":        "__STDARGS__",
	"__far":            "__FAR__",
	"__interrupt":      "__INTERRUPT__",
	"__amigainterrupt": "__INTERRUPT__",
	"__chip":           "__CHIP__",
	"__fast":           "__FAST__",
	"__stkargs":        "__STDARGS__",
	"__attribute__":    "",
	"__builtin_expect": "",
}

// Keywords SAS/C does not accept. Entries ending in '_' match as prefixes.
var sascKeywords = []string{
	"__amigainterrupt", "__stkargs", "__attribute__", "__builtin_",
	"__volatile__", "__const__", "__restrict__",
}

// Keywords VBCC does not accept.
var vbccKeywords = []string{
	"__saveds", "__save_ds", "__stkargs", "__attribute__", "__builtin_",
	"__volatile__", "__const__", "__restrict__",
}

// Keywords C89 lacks, with the message shown in C89 mode.
var c89MissingKeywords = []struct{ word, msg string }{
	{"inline", "'inline' keyword is not available in C89"},
	{"restrict", "'restrict' keyword is not available in C89"},
	{"_Bool", "_Bool type is not available in C89"},
	{"_Complex", "_Complex type is not available in C89"},
	{"_Imaginary", "_Imaginary type is not available in C89"},
}

var c99Keywords = []string{"inline", "restrict", "_Bool", "_Complex", "_Imaginary", "typeof"}

var c99StdlibFunctions = set(
	"snprintf", "vsnprintf", "strdup", "strndup", "strnlen", "strlcpy", "strlcat",
	"asprintf", "vasprintf", "open_memstream", "fmemopen", "getline", "getdelim",
	"strtok_r", "strerror_r", "memset_s", "strcpy_s", "strcat_s", "strncpy_s",
	"strncat_s", "strlen_s", "strcmp_s", "strncmp_s", "strchr_s", "strrchr_s",
	"strstr_s", "strpbrk_s", "strspn_s", "strcspn_s", "strtok_s",
	"round", "lround", "llround", "trunc", "remainder", "fma", "nan",
	"atoll", "strtof", "strtold", "llabs",
	"strtoimax", "strtoumax",
)

var c99Headers = []string{
	"<stdint.h>", "<stdbool.h>", "<complex.h>", "<tgmath.h>", "<fenv.h>",
	"<inttypes.h>", "<wchar.h>", "<wctype.h>", "<uchar.h>", "<threads.h>",
	"<stdatomic.h>", "<stdnoreturn.h>", "<stdalign.h>", "<stdbit.h>",
}

// Lower-case C library functions exempt from the PascalCase rule.
var stdlibFunctions = set(
	"printf", "scanf", "malloc", "free", "strcpy", "strlen", "fopen", "fclose", "fgets",
	"fputs", "fread", "fwrite", "fseek", "ftell", "rewind", "feof", "ferror", "clearerr",
	"strcat", "strcmp", "strncmp", "strncpy", "strncat", "strchr", "strrchr", "strstr",
	"strtok", "strerror", "strdup", "strndup", "strnlen", "strlcpy", "strlcat",
	"sprintf", "vsprintf", "snprintf", "vsnprintf", "sscanf", "fscanf",
	"calloc", "realloc", "memcpy", "memmove", "memcmp", "memset", "memchr",
	"abs", "labs", "llabs", "div", "ldiv", "lldiv", "rand", "srand",
	"atoi", "atol", "atoll", "strtol", "strtoul", "strtoll", "strtoull",
	"exit", "abort", "atexit", "system", "getenv", "setenv", "unsetenv",
	"time", "ctime", "gmtime", "localtime", "mktime", "strftime", "asctime",
	"isalpha", "isdigit", "isalnum", "isspace", "isupper", "islower", "toupper", "tolower",
	"sin", "cos", "tan", "asin", "acos", "atan", "atan2", "sinh", "cosh", "tanh",
	"exp", "log", "log10", "pow", "sqrt", "ceil", "floor", "fabs", "fmod",
	"setjmp", "longjmp", "signal", "raise", "qsort", "bsearch",
	"main",
)

var amigaFunctions = set(
	"OpenLibrary", "CloseLibrary", "AllocMem", "FreeMem", "CreateMsgPort", "DeleteMsgPort",
	"DoIO", "OpenDevice", "CloseDevice", "ReadArgs", "Open", "Close", "Read", "Write",
)

// memsafeReplacements maps memory-unsafe functions to safer ones.
var memsafeReplacements = map[string]string{
	"strcpy":   "strncpy",
	"strcat":   "strncat",
	"sprintf":  "snprintf",
	"vsprintf": "vsnprintf",
	"gets":     "fgets",
	"scanf":    "check_return_and_width",
	"fscanf":   "check_return_and_width",
	"sscanf":   "check_return_and_width",
	"strtok":   "strtok_r",
	"strerror": "strerror_r",
	"tmpnam":   "tmpnam_r",
	"mktemp":   "mkstemp",
	"realpath": "realpath",
	"atoi":     "strtol",
	"atol":     "strtol",
	"atof":     "strtod",
	"getenv":   "getenv_s or use mutex protection",
}

// Statement keywords that can precede an identifier and '(' without
// forming a function declaration.
var statementKeywords = set(
	"return", "if", "while", "for", "switch", "else", "do", "case", "goto", "sizeof",
)
