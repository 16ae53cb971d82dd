package statement

const mbankStatement = `mBank S.A. Bankowość Detaliczna;
#Klient;
JAN KOWALSKI;

#Data operacji;#Data księgowania;#Opis operacji;#Tytuł;#Nadawca/Odbiorca;#Numer konta;#Kwota;#Saldo po operacji;
2024-01-15;2024-01-15;ZAKUP PRZY UZYCIU KARTY;Zabka;Zabka Sp. z o.o.;12345;-15,50;1000,00;
2024-01-15;2024-01-15;PRZELEW WEWNĘTRZNY WYCHODZĄCY;Oszczędności;JAN KOWALSKI;55555;-200,00;800,00;
2024-01-16;2024-01-16;PRZELEW ZEWNĘTRZNY WYCHODZĄCY;Zakup akcji;XTB.COM;99887;-500,00;300,00;
2024-01-17;2024-01-17;PRZELEW ZEWNĘTRZNY PRZYCHODZĄCY;Wynagrodzenie;ACME SP Z O O;11111;3000,00;3300,00;
bad-date;2024-01-17;ZAKUP PRZY UZYCIU KARTY;Kiosk;Kiosk;1;-3,00;3297,00;
2024-01-18;broken
;;#Saldo końcowe;3297,00 PLN;
`

const pkoStatement = `"Data operacji","Data waluty","Typ transakcji","Kwota","Waluta","Saldo po transakcji","Opis transakcji","",""
"2024-02-01","2024-02-01","Płatność kartą","-42.99","PLN","+1000.00","Tytuł: 000498849 74230784032100051234567","Lokalizacja: Adres: BIEDRONKA 123 Miasto: Krakow Kraj: POLSKA",""
"2024-02-02","2024-02-02","Przelew z rachunku","-1 200,00","PLN","+0.00","Rachunek odbiorcy: 11 2222","Nazwa odbiorcy: Jan Kowalski","Tytuł: oszczędności"
"2024-02-03","2024-02-03","Zakup biletu komunikacji miejskiej","-4.40","PLN","-4.40","Tytuł: Bilet jednorazowy","Nazwa odbiorcy: ZTM Warszawa",""
`

const revolutStatement = `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
CARD_PAYMENT,Current,2024-03-01 10:00:00,2024-03-02 09:00:00,Netflix,-43.00,0.00,PLN,COMPLETED,100.00
TOPUP,Current,2024-03-01 08:00:00,2024-03-01 08:00:01,Top-Up by *1234,500.00,0.00,PLN,COMPLETED,600.00
CARD_PAYMENT,Current,2024-03-03 10:00:00,,Uber,-20.00,0.00,PLN,PENDING,
TRANSFER,Current,2024-03-04 10:00:00,2024-03-04 10:00:05,To Anna,-100.00,1.50,PLN,COMPLETED,0.00
`

const zenStatement = `Account statement
Account holder,Jan Kowalski
,
Transactions:
Date,Transaction type,Description,Settlement amount,Settlement currency,Balance
1 Nov 2025,Card payment,Spotify,-23.99,PLN,976.01
2 Nov 2025,Top-up,Card top-up,500.00,PLN,1476.01
3 Nov 2025,Top-up,Card top-up,50.00,PLN,1526.01
4 Nov 2025,Card payment,Allegro,-120.00,PLN,1406.01
Closing balance,,,,,1406.01
`

const genericStatement = `date;description;amount
15.01.2024;Kiosk Ruch;12,00
16.01.2024;Apteka;-34,50
;;
no date here;Market;5,00
`
